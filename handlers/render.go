package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"blog-service/models"

	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// formData feeds the register and login templates. Error, when set, is the
// validation message rendered back into the form.
type formData struct {
	Title    string
	Error    string
	Username string
}

// indexData feeds the home template. User is nil for anonymous requests.
type indexData struct {
	Title string
	User  *models.User
}

// render writes the named template with a 200 status.
func render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("Failed to render template", zap.String("template", name), zap.Error(err))
	}
}
