package resultstore

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// pageData feeds the shareable result page template, per the teacher's
// resultPageData (Title/Description/OGP/PageURL/ResultJSON).
type pageData struct {
	Title       string
	Description string
	OGPURL      string
	PageURL     string
	ResultJSON  template.JS
}

var pageTemplate = template.Must(template.New("result").Parse(resultPageHTML))

// RenderPage writes the HTML result page for result to w. baseURL is the
// scheme+host the page and its OGP image are reachable at (the caller
// resolves X-Forwarded-Proto the way the teacher's
// HandleViewResultPage does).
func RenderPage(w io.Writer, result *Result, baseURL string) error {
	words := make([]string, len(result.History))
	for i, h := range result.History {
		words[i] = h.Word
	}
	chain := strings.Join(words, " -> ")
	if r := []rune(chain); len(r) > 80 {
		chain = string(r[:77]) + "..."
	}

	title := fmt.Sprintf("Bomb Party result - a %d-word chain", len(result.History))
	if result.Winner != "" {
		title = fmt.Sprintf("Bomb Party - %s wins (%d words)", result.Winner, len(result.History))
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	data := pageData{
		Title:       title,
		Description: chain,
		OGPURL:      baseURL + "/results/" + result.ID + "/ogp.svg",
		PageURL:     baseURL + "/results/" + result.ID,
		ResultJSON:  template.JS(resultJSON),
	}
	return pageTemplate.Execute(w, data)
}

// resultPageHTML is the shareable result page, grounded on the teacher's
// srv/result_page.go: OGP/Twitter-card meta tags plus a small
// client-side script that renders the scoreboard and word chain from
// the embedded result JSON.
const resultPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>

<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:image" content="{{.OGPURL}}">
<meta property="og:url" content="{{.PageURL}}">
<meta property="og:type" content="website">
<meta property="og:image:width" content="1200">
<meta property="og:image:height" content="630">

<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:title" content="{{.Title}}">
<meta name="twitter:description" content="{{.Description}}">
<meta name="twitter:image" content="{{.OGPURL}}">

<style>
*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#0f172a;color:#e2e8f0;min-height:100dvh;line-height:1.6}
.header{text-align:center;padding:2rem 1rem 1rem;background:linear-gradient(135deg,#be123c,#f97316);color:#fff}
.header h1{font-size:2rem;font-weight:900}
.container{max-width:600px;margin:0 auto;padding:1.5rem 1rem}
.card{background:#1e293b;border-radius:12px;padding:1.5rem;margin-bottom:1rem}
.card h2{font-size:1.1rem;margin-bottom:1rem;border-left:3px solid #f97316;padding-left:.5rem}
.scores{list-style:none}
.score-item{display:flex;justify-content:space-between;padding:.6rem 1rem;border-radius:8px;margin-bottom:.4rem;background:#334155}
.chain-summary{font-size:.85rem;color:#94a3b8;padding:.5rem .75rem;background:#334155;border-radius:8px;word-break:break-all}
</style>
</head>
<body>
<div class="header"><h1>Bomb Party</h1></div>
<div class="container">
  <div class="card">
    <h2>Scoreboard</h2>
    <ul class="scores" id="scores"></ul>
  </div>
  <div class="card">
    <h2>Word chain</h2>
    <div class="chain-summary" id="chain"></div>
  </div>
</div>
<script>
const result = {{.ResultJSON}};
const scoreList = document.getElementById('scores');
Object.entries(result.lives || {}).sort((a,b) => b[1]-a[1]).forEach(([name, lives]) => {
  const li = document.createElement('li');
  li.className = 'score-item';
  li.textContent = name + ' - ' + lives + ' lives';
  scoreList.appendChild(li);
});
document.getElementById('chain').textContent = (result.history || []).map(h => h.word).join(' -> ');
</script>
</body>
</html>`
