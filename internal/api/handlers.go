package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"direktmap/internal/duration"
	"direktmap/internal/geo"
	"direktmap/internal/i18n"
	"direktmap/internal/publisher"
	"direktmap/internal/selection"
)

type mapResponse struct {
	State        selection.State       `json:"state"`
	Phase        string                `json:"phase"`
	Query        string                `json:"query"`
	Title        string                `json:"title"`
	Layer        geo.FeatureCollection `json:"layer"`
	Notification *i18n.Notification    `json:"notification,omitempty"`
}

type legendEntry struct {
	Bucket duration.Bucket `json:"bucket"`
	Colour string          `json:"colour"`
	Label  string          `json:"label"`
}

func (s *Server) translator(r *http.Request) *i18n.Translator {
	lang := i18n.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	return i18n.New(lang, s.log)
}

func (s *Server) reqLog(r *http.Request) *zap.Logger {
	return s.log.With(zap.String("request_id", RequestID(r.Context())))
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	tr := s.translator(r)
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeJSON(w, http.StatusOK, geo.Suggestions(nil, tr.Lang()))
		return
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveSearch()
	}
	stations, err := s.backend.Search(r.Context(), query)
	if err != nil {
		s.reqLog(r).Warn("station search failed", zap.String("query", query), zap.Error(err))
		httpError(w, http.StatusBadGateway, tr.T("unknownErrorAlertMessage"))
		return
	}
	writeJSON(w, http.StatusOK, geo.Suggestions(stations, tr.Lang()))
}

// handleMap restores the selection carried in the query string, applies the
// optional transition (select, add, remove, setTrainTypes, setMaxDuration)
// and answers with the rendered layer. Failures keep whatever origins loaded
// before them and add the localized notification.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	tr := s.translator(r)
	log := s.reqLog(r)
	q := r.URL.Query()
	st := selection.Decode(q)
	tx := selection.DecodeTransition(q)
	if len(st.Origins) == 0 && tx.Select == "" && len(tx.Add) == 0 {
		httpError(w, http.StatusBadRequest, "missing origin")
		return
	}

	sess := selection.NewSession(s.backend, geo.Options{
		Lang:            tr.Lang(),
		CalendarBaseURL: s.opts.CalendarBaseURL,
	}, log)
	err := sess.Restore(r.Context(), st)
	if err == nil && !tx.Empty() {
		err = sess.Apply(r.Context(), tx)
	}
	kind := selection.Classify(err)

	names := make([]string, 0, len(st.Origins))
	for _, o := range sess.Origins() {
		names = append(names, o.Name)
	}
	resp := mapResponse{
		State: sess.State(),
		Phase: sess.Phase().String(),
		Query: sess.State().Encode(),
		Title: tr.Title(names...),
		Layer: sess.Layer(),
	}
	outcome := sess.Phase().String()
	if kind != selection.NoError {
		outcome = kind.String()
		n := tr.Notify(kind.Token(), kind.Icon())
		resp.Notification = &n
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveRender(outcome, len(resp.Layer.Features))
	}

	if sess.Phase() == selection.Rendered && s.opts.Publisher != nil {
		msg := publisher.SelectionMessage{
			Origins:     sess.State().Origins,
			Names:       names,
			TrainTypes:  string(sess.State().TrainTypes),
			MaxDuration: sess.State().MaxDuration,
			Query:       resp.Query,
			Features:    len(resp.Layer.Features),
			Timestamp:   time.Now().UTC(),
		}
		if perr := s.opts.Publisher.PublishSelection(msg); perr != nil {
			log.Warn("publish selection failed", zap.Error(perr))
		}
	}

	writeJSON(w, statusFor(kind), resp)
}

func statusFor(kind selection.ErrorKind) int {
	switch kind {
	case selection.NoError:
		return http.StatusOK
	case selection.StationNotFound:
		return http.StatusNotFound
	case selection.NoResults:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	tr := s.translator(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"lang":    tr.Lang().String(),
		"strings": tr.All(),
	})
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	buckets := duration.Buckets()
	out := make([]legendEntry, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, legendEntry{Bucket: b, Colour: duration.Colour(b), Label: b.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		if err := s.opts.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
