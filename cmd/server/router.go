package main

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"bookshelf/internal/assets"
	"bookshelf/internal/auth"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/progress"
	"bookshelf/internal/readinglist"
	"bookshelf/internal/shared"
	"bookshelf/internal/user"
	"bookshelf/internal/websocket"
	"bookshelf/pkg/models"
)

type app struct {
	db     *sql.DB
	cfg    config.Config
	logger *log.Logger
	svc    *progress.Service
	lists  readinglist.Store
	files  assets.Store
	hub    *websocket.FeedHub
}

func (a *app) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), a.requestLog())

	secret := []byte(a.cfg.JWTSecret)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// AUTH
	creds := r.Group("/auth", auth.RateLimit(a.cfg.AuthRatePerMin))
	creds.POST("/register", a.handleRegister)
	creds.POST("/login", a.handleLogin)

	// PUBLIC CATALOG
	r.GET("/books", a.handleSearchBooks)
	r.GET("/books/:id", a.handleBookDetail)

	// PROGRESS FEED
	r.GET("/ws", websocket.HandleFeed(a.hub, secret))

	// PROTECTED
	authed := r.Group("/")
	authed.Use(auth.RequireJWT(secret))
	authed.POST("/books", a.handleCreateBook)
	authed.GET("/books/:id/file", a.handleBookFile)
	authed.GET("/progress", a.handleListProgress)
	authed.POST("/progress", a.handleUpdateProgress)
	authed.GET("/readinglist", a.handleReadingList)

	return r
}

func (a *app) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"dur", time.Since(start))
	}
}

func (a *app) handleRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "username and password are required"})
		return
	}

	if _, err := user.CreateUser(a.db, req.Username, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not create user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (a *app) handleLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid json"})
		return
	}

	u, err := user.VerifyLogin(a.db, req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
		return
	}

	token, err := auth.SignJWT([]byte(a.cfg.JWTSecret), u.ID, u.Username, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "sign token failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func (a *app) handleSearchBooks(c *gin.Context) {
	q := c.Query("q")
	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	res, err := book.Search(a.db, q, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": res, "limit": limit, "offset": offset})
}

func (a *app) handleBookDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid book id"})
		return
	}
	b, err := book.GetByID(a.db, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "book not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "book": b})
}

// handleCreateBook accepts multipart form data: title, author, total_pages
// plus an optional book file stored through the asset store.
func (a *app) handleCreateBook(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	totalPages := parseInt(c.PostForm("total_pages"), 0)
	if title == "" || totalPages <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "title and positive total_pages are required"})
		return
	}

	b := models.Book{
		Title:      title,
		Author:     strings.TrimSpace(c.PostForm("author")),
		TotalPages: int64(totalPages),
		UploadedBy: c.GetString(auth.CtxUserIDKey),
	}

	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read upload", "details": err.Error()})
			return
		}
		defer f.Close()
		name, err := a.files.Save(fh.Filename, f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not store file", "details": err.Error()})
			return
		}
		b.FileName = name
	}

	created, err := book.Create(a.db, b)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "db error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "book": created})
}

func (a *app) handleBookFile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid book id"})
		return
	}
	b, err := book.GetByID(a.db, id)
	if err != nil || b.FileName == "" {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "file not found"})
		return
	}
	rc, err := a.files.Open(b.FileName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "file not found"})
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+b.FileName+`"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

func (a *app) handleListProgress(c *gin.Context) {
	userID := c.GetString(auth.CtxUserIDKey)

	var bookID int64
	raw := c.Query("book_id")
	if raw == "" {
		raw = c.Query("bookId")
	}
	if raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "book_id must be a positive integer"})
			return
		}
		bookID = v
	}

	recs, err := a.svc.List(c.Request.Context(), userID, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	if recs == nil {
		recs = []models.ProgressRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "records": recs})
}

func (a *app) handleUpdateProgress(c *gin.Context) {
	userID := c.GetString(auth.CtxUserIDKey)

	var req progress.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": progress.ValidationMsg, "details": err.Error()})
		return
	}

	rec, err := a.svc.Record(c.Request.Context(), userID, req.Normalize())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "record": rec})
}

func (a *app) handleReadingList(c *gin.Context) {
	userID := c.GetString(auth.CtxUserIDKey)

	entries, err := a.lists.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.ReadingListEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": entries})
}

// respondError maps the error taxonomy onto HTTP statuses. The "error"
// field stays a stable human-readable message; "details" carries the
// underlying text for diagnostics.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), shared.ErrValidation.Error()+": ")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg, "details": err.Error()})
	case errors.Is(err, shared.ErrStorageUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "storage unavailable", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "operation failed", "details": err.Error()})
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
