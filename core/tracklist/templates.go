package tracklist

import (
	"bytes"
	"html/template"
	"strings"

	"tracklist/model"
)

type tableData struct {
	Tracks []*model.Track
	Count  int
}

var funcs = template.FuncMap{
	"duration": FormatDuration,
	"title": func(k model.SortKey) string {
		s := string(k)
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"sortKeys": func() []model.SortKey { return model.SortKeys },
}

var tableTemplate = template.Must(template.New("tracks").Funcs(funcs).Parse(`<table id="tracks" hx-swap-oob="true" class="table-fixed">
  <thead class="bg-cyan-900">
    <tr>
{{- range sortKeys}}
      <th hx-post="/sort/{{.}}" hx-trigger="click">{{title .}}</th>
{{- end}}
      <th class="pr-2">Length</th>
    </tr>
  </thead>
  <tbody>
{{- range .Tracks}}
    <tr class="even:bg-cyan-900" hx-post="/play/{{.ID}}" hx-trigger="click" hx-swap="none">
      <td>{{.Artist}}</td>
      <td>{{.Album}}</td>
      <td>{{.Title}}</td>
      <td>{{duration .DurationSeconds}}</td>
    </tr>
{{- end}}
  </tbody>
</table>
<div id="track-count" hx-swap-oob="true">{{.Count}} tracks</div>
<div id="track-error" hx-swap-oob="true"></div>
`))

var errorTemplate = template.Must(template.New("error").Parse(
	`<div id="track-error" hx-swap-oob="true" class="text-red-400">{{.}}</div>
`))

// playbackIndicator is returned by the play command; real playback is not wired.
const playbackIndicator = `<div id="playback-icon" hx-swap-oob="innerHTML">▶️</div>`

// RenderError renders a fixed user-facing message. Callers pass their own
// text, never the underlying error.
func RenderError(message string) *Fragment {
	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, message); err != nil {
		return &Fragment{HTML: template.HTML(`<div id="track-error" hx-swap-oob="true">error</div>`)}
	}
	return &Fragment{HTML: template.HTML(buf.String())}
}

// PlaybackIndicator is the fragment shown after a play request.
func PlaybackIndicator() *Fragment {
	return &Fragment{HTML: playbackIndicator}
}
