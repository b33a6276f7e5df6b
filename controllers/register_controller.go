// controllers/register_controller.go
package controllers

import (
	"errors"
	"net/http"

	"lending_register/app"
	"lending_register/db"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterController struct{ *Srv }

func NewRegisterController(s *Srv) *RegisterController { return &RegisterController{Srv: s} }

// writeOpError maps repo errors onto HTTP responses. Validation failures
// come back as a per-field map so forms can attach messages to inputs.
func writeOpError(c *gin.Context, err error) {
	var verr db.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, app.H{"errors": verr})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "transaction not found"})
	case errors.Is(err, db.ErrNotIssued), errors.Is(err, db.ErrNotReturned):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

// Issue creates one transaction per requested item.
func (rc *RegisterController) Issue(c *gin.Context) {
	var in db.EntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	txs, err := rc.Repo.IssueItems(c.Request.Context(), in)
	if err != nil {
		writeOpError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"transactions": txs})
}

func (rc *RegisterController) List(c *gin.Context) {
	txs, err := rc.Repo.ListTransactions(c.Request.Context(), c.Query("q"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"transactions": txs})
}

func (rc *RegisterController) Get(c *gin.Context) {
	t, err := rc.Repo.FindTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeOpError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (rc *RegisterController) Return(c *gin.Context) {
	var in struct {
		ReturnedItems []string `json:"returnedItems"`
		ReturnDate    string   `json:"returnDate"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	t, err := rc.Repo.ReturnTransaction(c.Request.Context(), c.Param("id"), in.ReturnedItems, in.ReturnDate)
	if err != nil {
		writeOpError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (rc *RegisterController) Edit(c *gin.Context) {
	var in db.EntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	t, err := rc.Repo.EditTransaction(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeOpError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (rc *RegisterController) UndoReturn(c *gin.Context) {
	t, err := rc.Repo.UndoReturn(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeOpError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (rc *RegisterController) Delete(c *gin.Context) {
	if err := rc.Repo.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		writeOpError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// Resync recomputes all item counters from the transaction log.
func (rc *RegisterController) Resync(c *gin.Context) {
	updated, err := rc.Repo.ResyncItemCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "resynchronization failed"})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "updated": updated})
}
