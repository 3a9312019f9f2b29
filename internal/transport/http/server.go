package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sandevgo/tastybot/internal/config"
	"github.com/sandevgo/tastybot/internal/core"
	"github.com/sandevgo/tastybot/pkg/log"
)

// TurnHandler is the slice of the orchestrator the API needs.
type TurnHandler interface {
	HandleTurn(ctx context.Context, conversationID, input string) (string, error)
}

// historyLimit bounds the GET endpoint; clients wanting more should page
// through their own store.
const historyLimit = 200

type Server struct {
	cfg      *config.HTTPConfig
	echo     *echo.Echo
	turns    TurnHandler
	messages core.MessagesRepository
}

func NewServer(cfg *config.HTTPConfig, turns TurnHandler, messages core.MessagesRepository) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		cfg:      cfg,
		echo:     e,
		turns:    turns,
		messages: messages,
	}

	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/chat", s.handleChat)
	e.GET("/v1/conversations/:id/messages", s.handleHistory)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http server")
	if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type chatResponse struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required"})
	}

	// Omitting the conversation id starts a fresh conversation.
	if req.ConversationID == "" {
		req.ConversationID = uuid.New().String()
	}

	response, err := s.turns.HandleTurn(c.Request().Context(), req.ConversationID, req.Message)
	if err != nil {
		log.FromCtx(c.Request().Context()).Error().Err(err).Msg("turn failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "conversation could not be saved"})
	}

	return c.JSON(http.StatusOK, chatResponse{
		ConversationID: req.ConversationID,
		Response:       response,
	})
}

func (s *Server) handleHistory(c echo.Context) error {
	conversationID := c.Param("id")
	if conversationID == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "conversation id is required"})
	}

	msgs, err := s.messages.GetMessages(c.Request().Context(), conversationID, historyLimit)
	if err != nil {
		log.FromCtx(c.Request().Context()).Error().Err(err).Msg("failed to load history")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not load history"})
	}
	if msgs == nil {
		msgs = []core.Message{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"messages":        msgs,
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": core.TastyVersion,
	})
}
