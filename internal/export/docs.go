package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"virtualco/internal/domain"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderDoc renders a documentation page as a standalone HTML document.
func RenderDoc(doc domain.Documentation) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(doc.Content), &body); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { font-family: 'Segoe UI', Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 40px 20px; color: #333; }
        code { background-color: #f4f4f4; padding: 2px 6px; border-radius: 3px; }
        pre { background-color: #2d2d2d; color: #f8f8f2; padding: 16px; border-radius: 6px; }
    </style>
</head>
<body>
    <p class="meta">%s &middot; v%s &middot; %s</p>
    %s
</body>
</html>`, html.EscapeString(doc.Title), html.EscapeString(string(doc.Type)), html.EscapeString(doc.Version),
		doc.LastUpdated.Format("2006-01-02"), body.String()), nil
}
