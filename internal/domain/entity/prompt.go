package entity

import "strings"

const promptPlaceholder = "{prompt}"

// Prompt is an instruction template sent to a provider. The user's prompt
// replaces the {prompt} placeholder.
type Prompt struct {
	ID       string
	Template string
}

func (p Prompt) Render(userPrompt string) string {
	return strings.ReplaceAll(p.Template, promptPlaceholder, userPrompt)
}

var OpenAIPagePrompt = Prompt{
	ID:       "openai_page",
	Template: "Reason step-by-step: {prompt}. Generate only valid HTML for a multi-page style site with hero, dashboard, gallery.",
}

var GeminiPagePrompt = Prompt{
	ID:       "gemini_page",
	Template: "Generate only HTML. Prompt: {prompt}. Include hero, dashboard, gallery sections.",
}

var AnthropicPagePrompt = Prompt{
	ID:       "anthropic_page",
	Template: "HTML only: {prompt}",
}

var OllamaPagePrompt = Prompt{
	ID:       "ollama_page",
	Template: GeminiPagePrompt.Template,
}

// FallbackTitle is the heading of the locally generated preview page.
const FallbackTitle = "AI Website Builder"

const fallbackTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>AI Generated - Preview</title>
  <style>
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Ubuntu, Cantarell, Noto Sans, Helvetica, Arial, "Apple Color Emoji", "Segoe UI Emoji"; margin: 0; background: #0b1220; color: #e8eefc; }
    header { background: linear-gradient(135deg, #0ea5e9, #7c3aed); padding: 48px 24px; text-align: center; }
    header h1 { margin: 0; font-size: 36px; }
    header p { margin-top: 8px; opacity: 0.9; }
    main { padding: 24px; max-width: 1000px; margin: 0 auto; }
    .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); gap: 16px; }
    .card { background: #111827; border: 1px solid #1f2937; border-radius: 12px; padding: 16px; }
    .btn { background: #0ea5e9; border: none; color: white; padding: 10px 16px; border-radius: 8px; cursor: pointer; }
    footer { text-align: center; padding: 24px; color: #93a3b8; }
  </style>
</head>
<body>
  <header>
    <h1>` + FallbackTitle + `</h1>
    <p>Quick preview for: <em>{prompt}</em></p>
  </header>
  <main>
    <section class="grid">
      <div class="card"><h3>Hero</h3><p>Futuristic hero section with CTA</p><button class="btn">Get Started</button></div>
      <div class="card"><h3>Dashboard</h3><p>KPIs and charts preview</p></div>
      <div class="card"><h3>Gallery</h3><p>Image tiles and assets</p></div>
    </section>
  </main>
  <footer>Generated locally without external AI calls</footer>
</body>
</html>
`

// FallbackHTML renders the static preview page. The prompt is embedded as is.
func FallbackHTML(prompt string) string {
	return strings.Replace(fallbackTemplate, promptPlaceholder, prompt, 1)
}
