package transcript

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	mdhtml "github.com/yuin/goldmark/renderer/html"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

var archiveTemplate = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Transcript {{.ChannelID}}</title>
<style>
body{font-family:sans-serif;background:#313338;color:#dbdee1;margin:0;padding:16px}
.message{display:flex;gap:12px;padding:6px 0}
.avatar{width:40px;height:40px;border-radius:50%}
.author{font-weight:600;color:#f2f3f5}
.time{font-size:12px;color:#949ba4;margin-left:6px}
.content p{margin:2px 0}
.attachment img{max-width:400px;border-radius:4px;margin-top:4px}
code,pre{background:#2b2d31;border-radius:4px}
a{color:#00a8fc}
</style>
</head>
<body>
<header>
<h1>Transcript of channel {{.ChannelID}}</h1>
<p>{{.Count}} messages, generated {{.GeneratedAt}}</p>
</header>
{{range .Messages}}<div class="message" id="m-{{.ID}}">
{{if .AvatarURL}}<img class="avatar" src="{{.AvatarURL}}" alt="">{{end}}
<div>
<div><span class="author" title="{{.AuthorID}}">{{.AuthorName}}</span><span class="time">{{.Timestamp}}</span></div>
<div class="content">{{.Content}}</div>
{{range .Images}}<div class="attachment"><img src="{{.Src}}" alt="{{.Filename}}"></div>
{{end}}{{range .Files}}<div class="attachment"><a href="{{.URL}}">{{.Filename}}</a></div>
{{end}}</div>
</div>
{{end}}</body>
</html>
`))

type pageView struct {
	ChannelID   string
	GeneratedAt string
	Count       int
	Messages    []messageView
}

type messageView struct {
	ID         string
	AuthorID   string
	AuthorName string
	AvatarURL  string
	Timestamp  string
	Content    template.HTML
	Images     []imageView
	Files      []fileView
}

type imageView struct {
	Filename string
	Src      template.URL
}

type fileView struct {
	Filename string
	URL      string
}

// markdownRenderer converts message markdown into safe HTML.
type markdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(mdhtml.WithUnsafe(), mdhtml.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

func (r *markdownRenderer) Render(markdown string) (template.HTML, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("error converting markdown: %w", err)
	}

	// Raw HTML is allowed through goldmark and stripped here.
	sanitized := r.policy.SanitizeBytes(buf.Bytes())
	return template.HTML(sanitized), nil
}

// render builds the archive document. Images maps attachment URLs to inlined data URLs.
func (r *markdownRenderer) render(channelID string, generatedAt time.Time, msgs []*Message, images map[string]template.URL) ([]byte, error) {
	page := pageView{
		ChannelID:   channelID,
		GeneratedAt: generatedAt.UTC().Format(timestampLayout),
		Count:       len(msgs),
		Messages:    make([]messageView, 0, len(msgs)),
	}

	for _, m := range msgs {
		content, err := r.Render(m.Content)
		if err != nil {
			return nil, fmt.Errorf("error rendering message %s: %w", m.ID, err)
		}

		view := messageView{
			ID:         m.ID,
			AuthorID:   m.AuthorID,
			AuthorName: m.AuthorName,
			AvatarURL:  m.AvatarURL,
			Timestamp:  m.Timestamp.UTC().Format(timestampLayout),
			Content:    content,
		}

		for _, a := range m.Attachments {
			switch src, ok := images[a.URL]; {
			case ok:
				view.Images = append(view.Images, imageView{Filename: a.Filename, Src: src})
			case isImage(a) && strings.HasPrefix(a.URL, "https://"):
				view.Images = append(view.Images, imageView{Filename: a.Filename, Src: template.URL(a.URL)})
			default:
				view.Files = append(view.Files, fileView{Filename: a.Filename, URL: a.URL})
			}
		}

		page.Messages = append(page.Messages, view)
	}

	var buf bytes.Buffer
	if err := archiveTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("error executing transcript template: %w", err)
	}
	return buf.Bytes(), nil
}

func isImage(a Attachment) bool {
	if strings.HasPrefix(a.ContentType, "image/") {
		return true
	}

	name := strings.ToLower(a.Filename)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
