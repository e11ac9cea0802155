package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"pfdb/models"
	"pfdb/pkg/config"
	"pfdb/pkg/parse"
	"pfdb/pkg/store"
	"pfdb/pkg/weapon"
	"pfdb/process/captures"
)

const maxCaptureSize = 5 << 20

type server struct {
	cfg      config.Config
	params   parse.Params
	texts    *store.TextStore
	users    *store.Users
	captures *captures.Ingester
	secret   []byte
	now      func() time.Time
}

func newServer(cfg config.Config, db *gorm.DB) *server {
	texts := store.NewTextStore(db)
	return &server{
		cfg:      cfg,
		params:   cfg.Params(),
		texts:    texts,
		users:    store.NewUsers(db),
		captures: captures.New(db, texts, cfg.OCR),
		secret:   []byte(cfg.Server.JWTSecret),
		now:      time.Now,
	}
}

func (s *server) routes(r *gin.Engine) {
	r.POST("/register", s.registerHandler)
	r.POST("/login", s.loginHandler)
	r.POST("/refresh", s.refreshHandler)
	r.POST("/revoke_refresh", s.revokeRefreshHandler)
	r.POST("/parse", s.parseHandler)

	authGroup := r.Group("")
	authGroup.Use(s.jwtAuthMiddleware())
	authGroup.GET("/me", s.meHandler)
	authGroup.POST("/weapons", s.putWeaponHandler)
	authGroup.POST("/weapons/:number/extract", s.extractHandler)
	authGroup.GET("/weapons/:number/statistics", s.statisticsHandler)
	authGroup.GET("/weapons/:number/text", s.textHandler)
	authGroup.POST("/captures", s.captureHandler)

	admin := authGroup.Group("")
	admin.Use(requireRole(models.RoleAdministrator))
	admin.GET("/revisions", s.revisionsHandler)
	admin.GET("/pending", s.pendingHandler)
}

type dumpRequest struct {
	Weapon string `json:"weapon" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

type extractResponse struct {
	Weapon        weapon.ID                `json:"weapon"`
	Number        int64                    `json:"number"`
	Statistics    []parse.LocatedStatistic `json:"statistics"`
	NeedsRevision int                      `json:"needsRevision"`
	Missing       []parse.StatisticKind    `json:"missing"`
	// Text is the dump after label repairs.
	Text string `json:"text,omitempty"`
}

func newExtractResponse(rs *parse.ResultSet, text string) extractResponse {
	id := rs.Weapon()
	missing := rs.Missing(parse.Kinds(parse.TargetsFor(id.Kind())))
	if missing == nil {
		missing = []parse.StatisticKind{}
	}
	return extractResponse{
		Weapon:        id,
		Number:        id.Number(),
		Statistics:    rs.Statistics(),
		NeedsRevision: len(rs.NeedsRevision()),
		Missing:       missing,
		Text:          text,
	}
}

// parseHandler extracts statistics from a posted dump without storing anything.
func (s *server) parseHandler(c *gin.Context) {
	var req dumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := weapon.ParseID(req.Weapon)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o := parse.NewOrchestrator(req.Text, id, s.params, nil)
	rs, err := o.ExtractAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newExtractResponse(rs, o.Text()))
}

func weaponParam(c *gin.Context) (weapon.ID, bool) {
	n, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err == nil {
		var id weapon.ID
		if id, err = weapon.FromNumber(n); err == nil {
			return id, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weapon number"})
	return weapon.ID{}, false
}

func userID(c *gin.Context) *uint {
	v, ok := c.Get("uid")
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

func storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("store")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// putWeaponHandler stores a dump. With ?extract=true it is extracted at once.
func (s *server) putWeaponHandler(c *gin.Context) {
	var req dumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := weapon.ParseID(req.Weapon)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	row, err := s.texts.Put(ctx, id, req.Text, userID(c))
	if err != nil {
		storeError(c, err)
		return
	}
	if c.Query("extract") != "true" {
		c.JSON(http.StatusOK, gin.H{"number": row.Number, "weapon": row.Weapon})
		return
	}
	s.extract(c, id)
}

func (s *server) extractHandler(c *gin.Context) {
	id, ok := weaponParam(c)
	if !ok {
		return
	}
	s.extract(c, id)
}

func (s *server) extract(c *gin.Context, id weapon.ID) {
	ctx := c.Request.Context()
	rs, err := s.texts.Extract(ctx, id, s.params)
	if err != nil {
		storeError(c, err)
		return
	}
	text, err := s.texts.LoadText(ctx, id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExtractResponse(rs, text))
}

func (s *server) statisticsHandler(c *gin.Context) {
	id, ok := weaponParam(c)
	if !ok {
		return
	}
	stats, err := s.texts.LoadStatistics(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *server) textHandler(c *gin.Context) {
	id, ok := weaponParam(c)
	if !ok {
		return
	}
	text, err := s.texts.LoadText(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

func (s *server) revisionsHandler(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	stats, err := s.texts.Revisions(c.Request.Context(), limit)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *server) pendingHandler(c *gin.Context) {
	ids, err := s.texts.Pending(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		out = append(out, gin.H{"weapon": id, "number": id.Number()})
	}
	c.JSON(http.StatusOK, out)
}

var captureTypes = map[string]bool{"image/png": true, "image/jpeg": true}

// captureHandler takes a statistics screenshot, reads it with OCR and
// extracts the resulting dump. Unreadable screenshots are kept for a retry.
func (s *server) captureHandler(c *gin.Context) {
	uid := userID(c)
	if uid == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, err := weapon.ParseID(c.PostForm("weapon"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxCaptureSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	ct := file.Header.Get("Content-Type")
	if !captureTypes[ct] {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only png and jpeg screenshots are accepted"})
		return
	}
	name := filepath.Base(file.Filename)
	if name == "." || name == string(filepath.Separator) || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		return
	}

	dir := filepath.Join(s.cfg.Server.UploadDir, "captures", strconv.FormatUint(uint64(*uid), 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	full := filepath.Join(dir, fmt.Sprintf("%d_%s", s.now().UnixNano(), name))
	if err := c.SaveUploadedFile(file, full); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	capture := models.Capture{FileName: name, StorePath: full, ContentType: ct, UserID: *uid, Weapon: id.String()}
	if _, err := s.captures.Ingest(c.Request.Context(), &capture); err != nil {
		if capture.ID == 0 {
			storeError(c, err)
			return
		}
		log.Warn().Err(err).Uint("capture", capture.ID).Msg("capture unreadable")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"capture_id": capture.ID, "error": capture.FailedReason})
		return
	}
	s.extract(c, id)
}
