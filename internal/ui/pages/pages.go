// Package pages holds the server-rendered HTML pages.
package pages

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/waktunyapuasa/puasa/internal/ctxkeys"
	"github.com/waktunyapuasa/puasa/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"percent": percent,
}).ParseFS(templatesFS, "templates/*.html"))

// layoutData is what every page template receives.
type layoutData struct {
	Title     string
	AppName   string
	Nonce     string
	CSRFToken string
	Path      string
	Page      any
}

func page(name, title string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		appName := "Waktunya Puasa"
		if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
			appName = cfg.AppName
		}
		return templates.ExecuteTemplate(w, name, layoutData{
			Title:     title,
			AppName:   appName,
			Nonce:     templ.GetNonce(ctx),
			CSRFToken: ctxkeys.CSRFToken(ctx),
			Path:      ctxkeys.URLPath(ctx),
			Page:      data,
		})
	})
}

type HomeData struct {
	Year         int
	Today        string
	TimeZone     string
	Summary      *model.ProgressSummary
	Checkpoints  []model.DayCheckpoint
	TodayCheckin *model.Checkin
}

func Home(data HomeData) templ.Component {
	return page("home", "Puasa Tracker", data)
}

type CheckInData struct {
	Year     int
	TimeZone string
	Allowed  []string
	Date     string
	Status   model.CheckinStatus
	Reason   string
	Existing *model.Checkin
	Error    string
	Saved    bool
}

func (d CheckInData) Locked() bool {
	return d.Existing != nil
}

func CheckIn(data CheckInData) templ.Component {
	return page("checkin", "Check-in Puasa", data)
}

func NotFound() templ.Component {
	return page("notfound", "Tidak dijumpai", nil)
}

// percent is the share of n in total, clamped to [0, 100].
func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return min(max(n*100/total, 0), 100)
}
