package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/app"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/share"
)

// PlayHandler drives one play session per websocket connection. The
// session is owned exclusively by its connection, so all state machine
// calls happen on the read loop and no locking is needed.
type PlayHandler struct {
	service  *app.PlayService
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewPlayHandler(service *app.PlayService, logger *slog.Logger) *PlayHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	OptionIndex int `json:"optionIndex"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type questionView struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type answerOutcome struct {
	Index       int               `json:"index"`
	OptionIndex int               `json:"optionIndex"`
	States      []app.OptionState `json:"states"`
	// Correct and CorrectIndex are only present for fact questions; a
	// profile answer is just acknowledged.
	Correct      *bool    `json:"correct,omitempty"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
	Sources      []string `json:"sources,omitempty"`
}

type completedView struct {
	Score          int         `json:"score"`
	Badge          string      `json:"badge"`
	Tier           domain.Tier `json:"tier"`
	Interpretation string      `json:"interpretation"`
	Answers        []int       `json:"answers"`
	// ShareQuery is the encoded query string for the result view,
	// e.g. "answers=1,0,2,...&score=6".
	ShareQuery string `json:"shareQuery"`
}

// ServeWS upgrades the request and plays a quiz attempt over the
// connection: inbound "answer" and "next" messages drive the state
// machine, outbound messages reveal outcomes and finally the result.
func (h *PlayHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		http.Error(w, "missing slug", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session, ok, err := h.service.Start(r.Context(), slug)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	if !ok {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "quiz not found"}})
		return
	}

	if err := conn.WriteJSON(h.questionMessage(session)); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid answer payload")
				continue
			}
			index := session.CurrentIndex()
			if !h.service.RecordAnswer(r.Context(), session, payload.OptionIndex) {
				h.sendError(conn, "answer already locked or option out of range")
				continue
			}
			if err := conn.WriteJSON(h.outcomeMessage(session, index)); err != nil {
				return
			}
		case "next":
			if !h.service.Advance(r.Context(), session) {
				h.sendError(conn, "answer the current question first")
				continue
			}
			if session.Completed() {
				if err := conn.WriteJSON(h.completedMessage(session)); err != nil {
					return
				}
				return
			}
			if err := conn.WriteJSON(h.questionMessage(session)); err != nil {
				return
			}
		default:
			h.sendError(conn, "unsupported message type")
		}
	}
}

func (h *PlayHandler) sendError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}}); err != nil {
		h.logger.Error("ws write error", "error", err)
	}
}

// questionMessage renders the current question without correctness
// data; the correct index is only revealed after the answer locks.
func (h *PlayHandler) questionMessage(session *app.Session) outboundMessage[questionView] {
	q := session.CurrentQuestion()
	base := q.Base()
	view := questionView{
		Index:    session.CurrentIndex(),
		Total:    len(session.Definition().Questions),
		ID:       base.ID,
		Question: base.Question,
		Options:  base.Options,
	}
	switch q.(type) {
	case domain.FactQuestion:
		view.Type = "fact"
	case domain.ProfileQuestion:
		view.Type = "profile"
	}
	return outboundMessage[questionView]{Type: "question", Payload: view}
}

func (h *PlayHandler) outcomeMessage(session *app.Session, index int) outboundMessage[answerOutcome] {
	q := session.Definition().Questions[index]
	selected, locked := session.Answer(index)
	outcome := answerOutcome{
		Index:       index,
		OptionIndex: selected,
		States:      app.QuestionStates(q, selected, locked),
	}
	if fact, ok := q.(domain.FactQuestion); ok {
		correct := selected == fact.CorrectIndex
		correctIndex := fact.CorrectIndex
		outcome.Correct = &correct
		outcome.CorrectIndex = &correctIndex
		outcome.Explanation = fact.Explanation
		outcome.Sources = fact.Sources
	}
	return outboundMessage[answerOutcome]{Type: "answerResult", Payload: outcome}
}

func (h *PlayHandler) completedMessage(session *app.Session) outboundMessage[completedView] {
	result, _ := session.Result()
	meta := domain.Classify(result.Score)

	score, answers := share.Encode(result)
	query := url.Values{}
	query.Set(share.ScoreParam, score)
	query.Set(share.AnswersParam, answers)

	return outboundMessage[completedView]{Type: "completed", Payload: completedView{
		Score:          result.Score,
		Badge:          meta.Badge,
		Tier:           meta.Tier,
		Interpretation: meta.Interpretation,
		Answers:        result.Answers,
		ShareQuery:     query.Encode(),
	}}
}
