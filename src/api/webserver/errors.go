package webserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/truthlens/src/faults"
)

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	if fe, ok := faults.As(err); ok {
		c.JSON(fe.Status, gin.H{"err": fe.Message, "category": fe.Category})
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"err": "request body too large", "category": faults.CategoryValidation})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"err": "Internal Server Error"})
}

func badRequest(c *gin.Context, msg string) {
	respondError(c, faults.Validation(msg))
}

func tooLarge(msg string) *faults.Error {
	fe := faults.Validation(msg)
	fe.Status = http.StatusRequestEntityTooLarge
	return fe
}

func tooSmall(name string) *faults.Error {
	return faults.Validation(fmt.Sprintf("file %q is empty", name))
}

func bindError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return tooLarge("request body too large")
	}
	return faults.Validation("invalid JSON body")
}

func formError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return tooLarge("upload too large")
	}
	return faults.Validation("invalid multipart form")
}
