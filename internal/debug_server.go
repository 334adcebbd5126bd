package internal

import (
	"chat-relay/domain"
	"chat-relay/observability"
	"chat-relay/projection"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/samber/lo"
)

//go:embed inspect.html
var templatesFS embed.FS

type StatsProvider func() observability.MonitoringStats
type RosterProvider func() []domain.Identity

type RoomRow struct {
	Room    string
	Members []domain.Identity
}

type PageData struct {
	Stats observability.MonitoringStats
	Rooms []RoomRow
}

// RegisterDebugRoutes serves /health, /stats (JSON) and /inspect (HTML).
func RegisterDebugRoutes(mux *http.ServeMux, log *slog.Logger, stats StatsProvider, roster RosterProvider) {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats()); err != nil {
			log.Warn("Stats not written", "error", err)
		}
	})

	mux.HandleFunc("GET /inspect", func(w http.ResponseWriter, _ *http.Request) {
		data := PageData{Stats: stats(), Rooms: GroupByRoom(roster())}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Warn("Inspect page not rendered", "error", err)
		}
	})
}

// GroupByRoom lists the active rooms in first-seen order with their members.
func GroupByRoom(identities []domain.Identity) []RoomRow {
	return lo.Map(projection.ActiveRooms(identities), func(room string, _ int) RoomRow {
		return RoomRow{Room: room, Members: projection.MembersOf(identities, room)}
	})
}
