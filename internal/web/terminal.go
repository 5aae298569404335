package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/session"
	"github.com/Zachkp/devfolio/internal/terminal"
)

const sessionCookie = "devfolio_session"

// loadSession returns the visitor's session, or a fresh one when the cookie
// is missing, expired or unreadable.
func (s *Server) loadSession(c *gin.Context) *terminal.Session {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		sess, err := s.sessions.Load(c.Request.Context(), id)
		if err == nil {
			return sess
		}
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("Error loading session: %v", err)
		}
	}
	return terminal.NewSession(time.Now())
}

func (s *Server) saveSession(c *gin.Context, sess *terminal.Session) {
	sess.UpdatedAt = time.Now()
	if err := s.sessions.Save(c.Request.Context(), sess); err != nil {
		log.Printf("Error saving session: %v", err)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.ID, int(s.cfg.SessionTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
}

// result is one executed command, ready for either transport.
type result struct {
	Command  string
	Prompt   string
	Lines    []terminal.Line
	Clear    bool
	TabID    string
	TabTitle string
	TabHTML  template.HTML
	Feature  string
	Next     string
	Theme    string
}

func (s *Server) execute(c *gin.Context, input string) result {
	sess := s.loadSession(c)
	input = strings.TrimSpace(input)
	res := result{Command: input, Prompt: s.term.Prompt(sess)}

	ctx := terminal.WithClientIP(c.Request.Context(), c.ClientIP())
	resp := s.term.Execute(ctx, sess, input)

	res.Lines = resp.Lines
	res.Clear = resp.Clear
	if resp.Tab != nil {
		html, err := s.renderer.Render(*resp.Tab)
		if err != nil {
			log.Printf("Error rendering %s: %v", resp.Tab.ID, err)
			res.Lines = []terminal.Line{{Text: "Failed to render output.", Kind: terminal.KindError}}
		} else {
			res.TabID, res.TabTitle, res.TabHTML = resp.Tab.ID, resp.Tab.Title, html
			sess.LastTab = resp.Tab.ID
		}
	}

	s.saveSession(c, sess)
	res.Feature = sess.Feature
	res.Next = s.term.Prompt(sess)
	res.Theme = sess.Theme
	return res
}

// index renders the shell page.
func (s *Server) index(c *gin.Context) {
	sess := s.loadSession(c)
	s.saveSession(c, sess)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":    content.Owner + " | Portfolio",
		"owner":    content.Owner,
		"role":     content.Role,
		"prompt":   s.term.Prompt(sess),
		"theme":    sess.Theme,
		"css":      s.renderer.CSS(),
		"features": s.term.Features(),
	})
}

// terminalFragment answers HTMX: output lines plus an out-of-band editor
// update and prompt.
func (s *Server) terminalFragment(c *gin.Context) {
	res := s.execute(c, c.PostForm("command"))
	if res.Clear {
		c.Header("HX-Reswap", "innerHTML")
	}
	if trigger, err := json.Marshal(map[string]string{"theme-changed": res.Theme}); err == nil {
		c.Header("HX-Trigger", string(trigger))
	}
	c.HTML(http.StatusOK, "terminal-output.html", res)
}

type terminalRequest struct {
	Command string `json:"command"`
}

type tabJSON struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	HTML  template.HTML `json:"html"`
}

type terminalResponse struct {
	Lines   []terminal.Line `json:"lines"`
	Tab     *tabJSON        `json:"tab,omitempty"`
	Feature string          `json:"feature"`
	Prompt  string          `json:"prompt"`
	Clear   bool            `json:"clear"`
	Theme   string          `json:"theme"`
}

func (s *Server) terminalJSON(c *gin.Context) {
	var req terminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res := s.execute(c, req.Command)
	out := terminalResponse{
		Lines:   res.Lines,
		Feature: res.Feature,
		Prompt:  res.Next,
		Clear:   res.Clear,
		Theme:   res.Theme,
	}
	if out.Lines == nil {
		out.Lines = []terminal.Line{}
	}
	if res.TabID != "" {
		out.Tab = &tabJSON{ID: res.TabID, Title: res.TabTitle, HTML: res.TabHTML}
	}
	c.JSON(http.StatusOK, out)
}

// complete offers tab completion for the current prompt.
func (s *Server) complete(c *gin.Context) {
	sess := s.loadSession(c)
	matches := s.term.Complete(sess, c.Query("prefix"))
	if matches == nil {
		matches = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
