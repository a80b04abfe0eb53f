package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/energizer-project/lupackets/internal/catalog"
	"github.com/energizer-project/lupackets/internal/db"
	"github.com/energizer-project/lupackets/internal/packets"
	"github.com/energizer-project/lupackets/internal/util"
	"github.com/energizer-project/lupackets/internal/wire"
)

// Version is reported by /api/ping.
const Version = "0.3.0"

type frameRequest struct {
	Direction catalog.Direction `json:"direction" binding:"required"`
	Frame     string            `json:"frame" binding:"required"`
	Label     string            `json:"label"`
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "lupackets",
		"version": Version,
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	proc, err := util.GetProcessStats()
	if err != nil {
		s.logger.Debug().Err(err).Msg("process stats unavailable")
	}
	c.JSON(http.StatusOK, gin.H{
		"system":  util.GetSystemInfo(),
		"process": proc,
		"catalog": len(s.entries),
	})
}

// handleCatalog lists catalog entries, optionally filtered by layer and
// direction query parameters.
func (s *Server) handleCatalog(c *gin.Context) {
	layer := c.Query("layer")
	dir := catalog.Direction(c.Query("direction"))

	out := make([]catalog.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if layer != "" && e.Layer != layer {
			continue
		}
		if dir != "" && e.Direction != dir {
			continue
		}
		out = append(out, e)
	}
	c.JSON(http.StatusOK, gin.H{"entries": out})
}

// handleCatalogEntry returns one entry, e.g.
// /api/catalog/world/client/CharacterListResponse.
func (s *Server) handleCatalogEntry(c *gin.Context) {
	e, ok := catalog.Find(s.entries, c.Param("layer"), catalog.Direction(c.Param("direction")), c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog entry not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *Server) handleDecode(c *gin.Context) {
	req, frame, ok := s.bindFrame(c)
	if !ok {
		return
	}

	p, _ := s.recorder.Parser(req.Direction)
	decoded, err := p.Parse(frame)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, decodeErrorBody(err))
		return
	}
	c.JSON(http.StatusOK, decoded)
}

func (s *Server) handleListCaptures(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	list, err := s.store.List(c.Query("direction"), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list captures")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list captures"})
		return
	}
	if list == nil {
		list = []db.Capture{}
	}
	c.JSON(http.StatusOK, gin.H{"captures": list})
}

// handleAddCapture stores a frame even when it does not decode; the decode
// error is kept with it.
func (s *Server) handleAddCapture(c *gin.Context) {
	req, frame, ok := s.bindFrame(c)
	if !ok {
		return
	}

	stored, _, err := s.recorder.Record(req.Direction, req.Label, frame)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to store capture")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store capture"})
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (s *Server) handleGetCapture(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid capture id"})
		return
	}

	capture, err := s.store.Get(id)
	if errors.Is(err, db.ErrCaptureNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("failed to read capture")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read capture"})
		return
	}

	resp := gin.H{"capture": capture}
	if p, ok := s.recorder.Parser(catalog.Direction(capture.Direction)); ok {
		if decoded, err := p.Parse(capture.Frame); err == nil {
			resp["decoded"] = decoded
		} else {
			resp["decode_error"] = decodeErrorBody(err)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) bindFrame(c *gin.Context) (frameRequest, []byte, bool) {
	var req frameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return req, nil, false
	}
	if _, ok := s.recorder.Parser(req.Direction); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be client or server"})
		return req, nil, false
	}

	frame, err := packets.ParseHex(req.Frame)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, nil, false
	}
	if max := s.cfg.GetCapture().MaxFrameBytes; len(frame) > max {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "frame exceeds capture.max_frame_bytes"})
		return req, nil, false
	}
	return req, frame, true
}

func decodeErrorBody(err error) gin.H {
	body := gin.H{"error": err.Error()}
	var de *wire.DecodeError
	if errors.As(err, &de) {
		body["path"] = de.Path
		body["offset"] = de.Offset
	}
	return body
}
