package v1

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// maxContactBodyBytes caps the request body; real messages are far smaller
const maxContactBodyBytes = 64 << 10

type ContactHandler struct {
	contactUC domain.ContactUsecase
	audit     *security.SecurityLogger
}

// ContactResult is the data returned for an accepted message
type ContactResult struct {
	ID        string `json:"id"`
	EmailSent bool   `json:"email_sent"`
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, audit *security.SecurityLogger, mw ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
		audit:     audit,
	}

	public.POST("/contact", append(mw, handler.SubmitContact)...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Store a contact message and notify the site owner by email. Email is skipped outside production.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactMessage  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodyBytes)

	var req domain.ContactMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logValidationFailed(c, []string{"body"})
		c.Error(apperror.Validation(usecase.MsgInvalidForm, []apperror.FieldError{
			{Field: "body", Message: "Request body must be a JSON object with name, email, subject and message"},
		}))
		return
	}

	res, err := h.contactUC.Submit(c.Request.Context(), &req)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
			fields := make([]string, 0, len(appErr.Fields))
			for _, f := range appErr.Fields {
				fields = append(fields, f.Field)
			}
			h.logValidationFailed(c, fields)
		}
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, res.Message, ContactResult{
		ID:        res.Record.ID.String(),
		EmailSent: res.EmailSent,
	})
}

func (h *ContactHandler) logValidationFailed(c *gin.Context, fields []string) {
	h.audit.LogValidationFailed(c.Request.Context(), c.ClientIP(), c.GetString("RequestID"), fields)
}
