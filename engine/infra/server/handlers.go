package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/compozy/pdftab/engine/batch"
	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/engine/encode"
	"github.com/compozy/pdftab/engine/infra/server/router"
	"github.com/compozy/pdftab/pkg/version"
)

const (
	// FilesField is the multipart field carrying uploaded documents.
	FilesField = "files"
	// RecordCountHeader reports how many records the response holds.
	RecordCountHeader = "X-Record-Count"
)

// convert runs the uploaded documents through the pipeline and returns the
// encoded result as a download.
func (s *Server) convert(c *gin.Context) {
	docs, ok := readDocuments(c)
	if !ok {
		return
	}
	s.runMu.Lock()
	out, err := s.runner.Run(c.Request.Context(), docs, c.Query("format"))
	s.runMu.Unlock()
	if err != nil {
		router.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	c.Header(RecordCountHeader, strconv.Itoa(out.Records))
	c.Data(http.StatusOK, out.MIMEType, out.Data)
}

// extract returns the records as structured text without a download header.
func (s *Server) extract(c *gin.Context) {
	docs, ok := readDocuments(c)
	if !ok {
		return
	}
	s.runMu.Lock()
	records, err := s.runner.Extract(c.Request.Context(), docs)
	s.runMu.Unlock()
	if err != nil {
		router.RespondError(c, err)
		return
	}
	data, err := encode.EncodeStructured(records)
	if err != nil {
		router.RespondError(c, err)
		return
	}
	c.Header(RecordCountHeader, strconv.Itoa(len(records)))
	c.Data(http.StatusOK, encode.FormatJSON.MIMEType(), data)
}

type formatInfo struct {
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	MIMEType    string `json:"mime_type"`
	Binary      bool   `json:"binary"`
	Description string `json:"description"`
}

func listFormats(c *gin.Context) {
	formats := encode.Formats()
	data := make([]formatInfo, 0, len(formats))
	for _, f := range formats {
		data = append(data, formatInfo{
			Name:        f.String(),
			Extension:   f.Extension(),
			MIMEType:    f.MIMEType(),
			Binary:      f.Binary(),
			Description: f.Description(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    gin.H{"formats": data, "default": encode.DefaultFormat.String()},
		"message": "Success",
	})
}

// CreateHealthHandler reports liveness and build information.
func CreateHealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"status":  "healthy",
				"version": version.Get(),
			},
			"message": "Success",
		})
	}
}

// readDocuments loads every uploaded file in upload order. It writes the problem
// response itself and reports false on failure.
func readDocuments(c *gin.Context) ([]batch.Document, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		if isBodyTooLarge(err) {
			router.RespondProblemWithCode(
				c,
				http.StatusRequestEntityTooLarge,
				core.ProblemCodeTooLarge,
				"request body exceeds the upload limit",
			)
			return nil, false
		}
		router.RespondProblemWithCode(c, http.StatusBadRequest, core.ProblemCodeInvalidInput, err.Error())
		return nil, false
	}
	headers := form.File[FilesField]
	if len(headers) == 0 {
		router.RespondProblemWithCode(
			c,
			http.StatusBadRequest,
			core.ProblemCodeInvalidInput,
			fmt.Sprintf("no files uploaded in field %q", FilesField),
		)
		return nil, false
	}
	docs := make([]batch.Document, 0, len(headers))
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			router.RespondError(c, core.NewDocumentDecodeError(fh.Filename, err))
			return nil, false
		}
		docs = append(docs, batch.Document{Name: fh.Filename, Data: data})
	}
	return docs, true
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
