// Package notify contains the asynchronous notification fan-out worker and
// the periodic digest batch job.
package notify

import (
	"fmt"
	"strings"
	"text/template"

	"gazette/internal/models"
)

var newPostTmpl = template.Must(template.New("new_post").Parse(
	`Hello!

A new {{.KindLabel}} was published in {{.CategoryNames}}:

{{.Title}}

{{.Preview}}

Read it here: {{.URL}}

— The Gazette team
`))

var digestTmpl = template.Must(template.New("digest").Parse(
	`Hello!

Here is what was published in your categories this week:
{{range .Posts}}
  * {{.Title}} — {{.URL}}{{end}}

— The Gazette team
`))

type newPostData struct {
	KindLabel     string
	CategoryNames string
	Title         string
	Preview       string
	URL           string
}

type digestEntry struct {
	Title string
	URL   string
}

type digestData struct {
	Posts []digestEntry
}

func postURL(siteURL string, postID uint) string {
	return fmt.Sprintf("%s/posts/%d", strings.TrimRight(siteURL, "/"), postID)
}

func kindLabel(kind models.PostKind) string {
	if kind == models.PostKindNews {
		return "news item"
	}
	return "article"
}

// RenderNewPost builds the subject and body for a single-post notification.
func RenderNewPost(siteURL string, post *models.Post) (subject, body string, err error) {
	names := make([]string, 0, len(post.Categories))
	for _, c := range post.Categories {
		names = append(names, c.Name)
	}

	subject = "New publication: " + post.Title

	var buf strings.Builder
	err = newPostTmpl.Execute(&buf, newPostData{
		KindLabel:     kindLabel(post.Kind),
		CategoryNames: strings.Join(names, ", "),
		Title:         post.Title,
		Preview:       post.Preview(),
		URL:           postURL(siteURL, post.ID),
	})
	if err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}

// RenderDigest builds the subject and body for one subscriber's weekly
// digest. posts must already be deduplicated and sorted newest first.
func RenderDigest(siteURL string, posts []*models.Post) (subject, body string, err error) {
	entries := make([]digestEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, digestEntry{
			Title: p.Title,
			URL:   postURL(siteURL, p.ID),
		})
	}

	subject = "Your weekly Gazette digest"

	var buf strings.Builder
	if err := digestTmpl.Execute(&buf, digestData{Posts: entries}); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
