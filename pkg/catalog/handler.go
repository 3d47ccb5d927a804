package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meowafisha/meowafisha/internal/rest"
	"github.com/meowafisha/meowafisha/internal/utils"
	"github.com/meowafisha/meowafisha/pkg/event"
	"github.com/meowafisha/meowafisha/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"`
	Title            string   `json:"title"`
	Location         string   `json:"location"`
	Time             string   `json:"time,omitempty"`
	Tags             string   `json:"tags,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	FullDescription  string   `json:"fullDescription,omitempty"`
	Contacts         string   `json:"contacts,omitempty"`
	Lat              *float64 `json:"lat,omitempty"`
	Lon              *float64 `json:"lon,omitempty"`
	DateLabel        string   `json:"dateLabel,omitempty"`
	EndedAgo         string   `json:"endedAgo,omitempty"`
}

type SectionDTO struct {
	Title  string     `json:"title"`
	Events []EventDTO `json:"events"`
}

type SearchResponseDTO struct {
	Loading bool       `json:"loading"`
	Events  []EventDTO `json:"events"`
}

type Handler struct {
	service *Service
	clock   utils.Clock
}

func NewHandler(service *Service, clock utils.Clock) *Handler {
	return &Handler{service: service, clock: clock}
}

// GetEvents returns the whole canonical event set in date order.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	events, err := h.service.Events()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.toDTOs(events))
}

// GetUpcoming returns the sectioned upcoming view.
func (h *Handler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sections, err := h.service.Upcoming()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	response := make([]SectionDTO, 0, len(sections))
	for _, section := range sections {
		response = append(response, SectionDTO{
			Title:  section.Title,
			Events: h.toDTOs(section.Events),
		})
	}
	h.writeJSON(w, http.StatusOK, response)
}

// GetArchive returns past events, most recent first.
func (h *Handler) GetArchive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	events, err := h.service.Archive()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.toDTOs(events))
}

// SearchEvents filters events by the q query parameter. Before the
// first load completes the response carries loading=true so the client
// can tell "not loaded" apart from "no matches".
func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query().Get("q")
	events, err := h.service.Search(query)
	if err != nil {
		if errors.Is(err, ErrNotLoaded) {
			h.writeJSON(w, http.StatusOK, SearchResponseDTO{Loading: true, Events: []EventDTO{}})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, SearchResponseDTO{Events: h.toDTOs(events)})
}

// GetEvent resolves a single event by its share-link id.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := mux.Vars(r)["eventId"]
	found, err := h.service.FindByID(id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			h.writeJSON(w, http.StatusNotFound, rest.ErrorResponse{Error: "event not found"})
			return
		}
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.toDTO(found))
}

// Reload triggers a full load cycle on demand.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Manual catalog reload requested")

	if err := h.service.Reload(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	snap := h.service.Snapshot()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"snapshotId": snap.ID,
		"events":     len(snap.Events),
	})
}

// ExportICS renders the upcoming events as an iCalendar feed.
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	sections, err := h.service.Upcoming()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	var events []event.Event
	for _, section := range sections {
		events = append(events, section.Events...)
	}
	cal := BuildCalendar(events, h.clock.Now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="afisha.ics"`)
	if err := cal.SerializeTo(w); err != nil {
		log.Errorf("failed to serialize calendar: %v", err)
	}
}

func (h *Handler) toDTO(e event.Event) EventDTO {
	now := h.clock.Now()
	// The "ended N ago" note is only meaningful while the event still
	// lingers in the today section, i.e. within the grace window.
	var endedAgo string
	if schedule.WithinGrace(e, now) {
		endedAgo = schedule.TimeAgoLabel(e, now)
	}
	return EventDTO{
		ID:               e.ID,
		Date:             e.Date,
		Title:            e.Title,
		Location:         e.Location,
		Time:             e.Time,
		Tags:             e.Tags,
		ShortDescription: e.ShortDescription,
		FullDescription:  e.FullDescription,
		Contacts:         e.Contacts,
		Lat:              e.Lat,
		Lon:              e.Lon,
		DateLabel:        schedule.DateLabel(e, now),
		EndedAgo:         endedAgo,
	}
}

func (h *Handler) toDTOs(events []event.Event) []EventDTO {
	out := make([]EventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, h.toDTO(e))
	}
	return out
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotLoaded) {
		w.WriteHeader(http.StatusServiceUnavailable)
		if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "events not loaded yet"}); encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
