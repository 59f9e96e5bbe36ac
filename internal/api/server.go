package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/vchauGIITHUB/murder-house/internal/game"
)

// Server mounts the player and GM routes onto a gin engine. All game
// logic lives in the engine; handlers only bind JSON, call one engine
// operation, and translate the outcome.
type Server struct {
	engine  *game.Engine
	log     zerolog.Logger
	joinURL string
}

func New(engine *game.Engine, joinURL string, log zerolog.Logger) *Server {
	return &Server{engine: engine, joinURL: joinURL, log: log}
}

func (s *Server) Mount(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/register", s.register)
	api.POST("/rejoin", s.rejoin)
	api.POST("/state", s.state)
	api.POST("/move", s.move)
	api.POST("/vote", s.vote)
	api.POST("/ghostVote", s.ghostVote)
	api.POST("/kill", s.kill)

	gm := api.Group("/gm")
	gm.POST("/unlock", s.unlock)

	auth := gm.Group("", s.gmAuth)
	auth.GET("/roster", s.roster)
	auth.POST("/updatePlayer", s.updatePlayer)
	auth.POST("/removePlayer", s.removePlayer)
	auth.POST("/randomizeRoles", s.randomizeRoles)
	auth.POST("/nextRound", s.nextRound)
	auth.POST("/newGame", s.newGame)
	auth.POST("/toggleRevealDots", s.toggle(s.engine.ToggleRevealDots, "revealDots"))
	auth.POST("/toggleKillerGaze", s.toggle(s.engine.ToggleKillerGaze, "killerGaze"))
	auth.POST("/toggleScream", s.toggle(s.engine.ToggleScream, "scream"))
	auth.POST("/toggleDeadIntervene", s.toggle(s.engine.ToggleDeadIntervene, "deadIntervene"))
	auth.POST("/toggleSanctuary", s.toggle(s.engine.ToggleSanctuary, "sanctuary"))
	auth.POST("/toggleShove", s.toggleShove)
	auth.POST("/toggleKillerClueVisibility", s.toggleKillerClueVisibility)
	auth.POST("/killerAdvantage", s.killerAdvantage)
	auth.POST("/ghostEventInterval", s.ghostEventInterval)
	auth.POST("/scatterPlayers", s.scatterPlayers)
	auth.POST("/generateClues", s.generateClues)
	auth.GET("/summary", s.summary)
	auth.GET("/joinQR", s.joinQR)
}

// gmAuth is the shared-secret check for GM routes; the pin travels in a
// header after the initial unlock.
func (s *Server) gmAuth(c *gin.Context) {
	if c.GetHeader("X-GM-Pin") != s.engine.GMPin() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Invalid GM PIN."})
		return
	}
	c.Next()
}

func statusFor(err error) int {
	switch game.KindOf(err) {
	case game.KindUnauthorized:
		return http.StatusUnauthorized
	case game.KindPermission:
		return http.StatusForbidden
	case game.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Malformed request body."})
}

/* ---------- player handlers ---------- */

func (s *Server) register(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	p, err := s.engine.Register(req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "player": gin.H{
		"id": p.ID, "name": p.Name, "pin": p.Pin, "role": p.Role,
	}})
}

func (s *Server) rejoin(c *gin.Context) {
	var req struct {
		Pin string `json:"pin"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	p, err := s.engine.Rejoin(req.Pin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "player": gin.H{
		"id": p.ID, "name": p.Name, "pin": p.Pin, "role": p.Role, "alive": p.Alive,
	}})
}

func (s *Server) state(c *gin.Context) {
	var req struct {
		Pin string `json:"pin"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	view, err := s.engine.State(req.Pin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "state": view})
}

func (s *Server) move(c *gin.Context) {
	var req struct {
		Pin  string `json:"pin"`
		Room string `json:"room"`
		Stay bool   `json:"stay"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	out, err := s.engine.Move(req.Pin, req.Room, req.Stay)
	if err != nil {
		fail(c, err)
		return
	}
	msg := fmt.Sprintf("You slip into %s.", out.Room)
	if req.Stay {
		msg = "You wait in the dark."
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": msg, "room": out.Room, "clue": out.Clue})
}

func (s *Server) vote(c *gin.Context) {
	var req struct {
		Pin       string `json:"pin"`
		TargetPin string `json:"targetPin"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	target, err := s.engine.Vote(req.Pin, req.TargetPin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": fmt.Sprintf("You silently point a finger at %s.", target.Name),
	})
}

func (s *Server) ghostVote(c *gin.Context) {
	var req struct {
		Pin   string `json:"pin"`
		Event string `json:"event"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	ev, err := s.engine.GhostVote(req.Pin, req.Event)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": "The house hears your whisper.",
		"event":   ev,
	})
}

func (s *Server) kill(c *gin.Context) {
	var req struct {
		Pin       string `json:"pin"`
		TargetPin string `json:"targetPin"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	out, err := s.engine.Kill(req.Pin, req.TargetPin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": fmt.Sprintf("%s will not leave %s.", out.Victim.Name, out.Room),
		"victim":  gin.H{"name": out.Victim.Name, "pin": out.Victim.Pin},
		"room":    out.Room,
	})
}

/* ---------- GM handlers ---------- */

func (s *Server) unlock(c *gin.Context) {
	var req struct {
		GMPin string `json:"gmPin"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	out, err := s.engine.Unlock(req.GMPin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": out.Token, "round": out.Round, "players": out.Players})
}

func (s *Server) roster(c *gin.Context) {
	round, players := s.engine.Roster()
	c.JSON(http.StatusOK, gin.H{"ok": true, "round": round, "players": players})
}

func (s *Server) updatePlayer(c *gin.Context) {
	var req struct {
		ID    int     `json:"id"`
		Role  *string `json:"role"`
		Alive *bool   `json:"alive"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	p, err := s.engine.UpdatePlayer(req.ID, req.Role, req.Alive)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "player": p})
}

func (s *Server) removePlayer(c *gin.Context) {
	var req struct {
		ID  int    `json:"id"`
		Pin string `json:"pin"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := s.engine.RemovePlayer(req.ID, req.Pin); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) randomizeRoles(c *gin.Context) {
	players, err := s.engine.RandomizeRoles()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "players": players})
}

func (s *Server) nextRound(c *gin.Context) {
	out := s.engine.AdvanceRound()
	resp := gin.H{"ok": true, "round": out.Round, "scattered": out.Scattered}
	if out.Executed != nil {
		resp["executed"] = out.Executed
	}
	if out.GhostEvent != "" {
		resp["ghostEvent"] = out.GhostEvent
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) newGame(c *gin.Context) {
	round := s.engine.NewGame()
	c.JSON(http.StatusOK, gin.H{"ok": true, "round": round})
}

func (s *Server) toggle(fn func() game.EffectLatch, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, name: fn()})
	}
}

func (s *Server) toggleShove(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "shoveArmed": s.engine.ToggleShove()})
}

func (s *Server) toggleKillerClueVisibility(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "killerClueVisibility": s.engine.ToggleKillerClueVisibility()})
}

func (s *Server) killerAdvantage(c *gin.Context) {
	var req struct {
		Interval *int  `json:"interval"`
		Enabled  *bool `json:"enabled"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	view, err := s.engine.SetKillerAdvantage(req.Interval, req.Enabled)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "killerAdvantage": view})
}

func (s *Server) ghostEventInterval(c *gin.Context) {
	var req struct {
		Interval int `json:"interval"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := s.engine.SetGhostEventInterval(req.Interval); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "interval": req.Interval})
}

func (s *Server) scatterPlayers(c *gin.Context) {
	var req struct {
		IncludeDead bool `json:"includeDead"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	moved := s.engine.Scatter(req.IncludeDead)
	c.JSON(http.StatusOK, gin.H{"ok": true, "moved": moved})
}

func (s *Server) generateClues(c *gin.Context) {
	var req struct {
		Sentence string `json:"sentence"`
	}
	if err := c.BindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	out, err := s.engine.GenerateClues(req.Sentence)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"sentence":  out.Sentence,
		"fragments": out.Fragments,
		"perRoom":   out.PerRoom,
	})
}

func (s *Server) summary(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": s.engine.Summary()})
}

// joinQR renders the join URL as a PNG so the GM can pass phones around
// the table.
func (s *Server) joinQR(c *gin.Context) {
	png, err := qrcode.Encode(s.joinURL, qrcode.Medium, 256)
	if err != nil {
		s.log.Error().Err(err).Msg("qr encode failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not render QR code."})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
