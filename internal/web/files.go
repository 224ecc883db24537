package web

import (
	"html/template"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// extensionToMIME maps file extensions to the content type the server
// responds with. Unknown extensions fall back to defaultContentType.
var extensionToMIME = map[string]string{
	".htm":  "text/html; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".css":  "text/css",
	".csv":  "text/csv",
	".gif":  "image/gif",
	".ico":  "image/vnd.microsoft.icon",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".js":   "text/javascript",
	".json": "application/json",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".otf":  "font/otf",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".bin":  "application/octet-stream",
}

const defaultContentType = "application/octet-stream"

// ContentTypeFor returns the content type for a request path, derived
// from its file extension.
func ContentTypeFor(p string) string {
	if ct, ok := extensionToMIME[strings.ToLower(path.Ext(p))]; ok {
		return ct
	}
	return defaultContentType
}

// contentTypeByExtension pins the Content-Type header for known
// extensions before the static middleware serves the file, so responses
// use the configured map rather than the platform MIME database.
func contentTypeByExtension() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ext := strings.ToLower(path.Ext(c.Request.URL.Path)); ext != "" {
			if ct, ok := extensionToMIME[ext]; ok {
				c.Writer.Header().Set("Content-Type", ct)
			}
		}
		c.Next()
	}
}

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head><title>Index of {{.Path}}</title></head>
<body>
<h1>Index of {{.Path}}</h1>
<ul>
{{- range .Entries}}
<li><a href="{{.Href}}">{{.Name}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

type listingEntry struct {
	Name string
	Href string
}

// handleUnmatched serves directory listings for paths the static
// middleware did not match, and a 404 otherwise.
func handleUnmatched(root string, listings bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A content type pinned for the missing file must not leak
		// into the error or listing response.
		c.Writer.Header().Del("Content-Type")

		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
			return
		}

		dir, ok := safeJoin(root, c.Request.URL.Path)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() || !listings {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read directory"})
			return
		}

		urlPath := c.Request.URL.Path
		if !strings.HasSuffix(urlPath, "/") {
			urlPath += "/"
		}
		data := struct {
			Path    string
			Entries []listingEntry
		}{Path: urlPath}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() {
				name += "/"
			}
			data.Entries = append(data.Entries, listingEntry{
				Name: name,
				Href: urlPath + name,
			})
		}
		sort.Slice(data.Entries, func(i, j int) bool {
			return data.Entries[i].Name < data.Entries[j].Name
		})

		c.Status(http.StatusOK)
		c.Header("Content-Type", "text/html; charset=utf-8")
		_ = listingTemplate.Execute(c.Writer, data)
	}
}

// safeJoin resolves a URL path against the static root, rejecting any
// path that would escape it.
func safeJoin(root, urlPath string) (string, bool) {
	cleaned := path.Clean("/" + urlPath)
	joined := filepath.Join(root, filepath.FromSlash(cleaned))

	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return joined, true
}
