package console

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tsanders-rh/ocpconsole/internal/apiclient"
	"github.com/tsanders-rh/ocpconsole/internal/auth"
	"github.com/tsanders-rh/ocpconsole/internal/form"
	"github.com/tsanders-rh/ocpconsole/internal/newcluster"
	"github.com/tsanders-rh/ocpconsole/pkg/types"
)

const newClusterTemplate = "new_cluster.html"

// NewClusterHandler serves the new-cluster page
type NewClusterHandler struct {
	page      *newcluster.Page
	validator *form.Validator
}

// NewNewClusterHandler creates a new-cluster page handler
func NewNewClusterHandler(page *newcluster.Page, v *form.Validator) *NewClusterHandler {
	return &NewClusterHandler{
		page:      page,
		validator: v,
	}
}

// pageData is the template input: the page model plus request-scoped bits
type pageData struct {
	*newcluster.Model
	CSRFToken string
}

// redirectNavigator records where the page wants to go; the handler turns
// it into a 303 redirect
type redirectNavigator struct {
	target string
}

func (n *redirectNavigator) Navigate(path string) {
	n.target = path
}

// requestContext carries the caller's token to the API client
func requestContext(c echo.Context) context.Context {
	return apiclient.ContextWithToken(c.Request().Context(), auth.GetToken(c))
}

func (h *NewClusterHandler) render(c echo.Context, status int, m *newcluster.Model) error {
	data := pageData{Model: m}
	if token, ok := c.Get("csrf").(string); ok {
		data.CSRFToken = token
	}
	return c.Render(status, newClusterTemplate, data)
}

// Show handles GET {base}/clusters/~new
func (h *NewClusterHandler) Show(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return err
	}

	loaded := h.page.Load(requestContext(c), userID)
	st := h.page.NewForm(loaded)

	return h.render(c, http.StatusOK, h.page.Model(loaded, st, &loaded.Alerts))
}

// Submit handles POST {base}/clusters/~new
func (h *NewClusterHandler) Submit(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return err
	}

	var values types.ClusterCreateParams
	if err := c.Bind(&values); err != nil {
		return ErrorBadRequest(c, "Invalid form data")
	}

	ctx := requestContext(c)
	loaded := h.page.Load(ctx, userID)
	st := h.page.NewForm(loaded)
	st.SetValues(values)
	st.TouchAll()

	// The save control is disabled in this state; a request that gets here
	// anyway is answered with the same form and no API call
	if !st.CanSubmit() {
		return h.render(c, http.StatusUnprocessableEntity, h.page.Model(loaded, st, &loaded.Alerts))
	}

	nav := &redirectNavigator{}
	h.page.Submit(ctx, userID, st, &loaded.Alerts, nav)
	if nav.target != "" {
		return c.Redirect(http.StatusSeeOther, nav.target)
	}

	status := http.StatusOK
	if !st.Valid() {
		status = http.StatusUnprocessableEntity
	}
	return h.render(c, status, h.page.Model(loaded, st, &loaded.Alerts))
}

// Cancel handles GET {base}/clusters/~new/cancel
func (h *NewClusterHandler) Cancel(c echo.Context) error {
	nav := &redirectNavigator{}
	h.page.Cancel(nav)
	return c.Redirect(http.StatusSeeOther, nav.target)
}

// ValidateRequest is the body of the validate endpoint
type ValidateRequest struct {
	Values  types.ClusterCreateParams `json:"values"`
	Initial types.ClusterCreateParams `json:"initial"`
}

// ValidateResponse reports the form state for a set of values
type ValidateResponse struct {
	Errors    map[string]string `json:"errors"`
	Dirty     bool              `json:"dirty"`
	Valid     bool              `json:"valid"`
	CanSubmit bool              `json:"canSubmit"`
}

// Validate handles POST {base}/clusters/~new/validate. It applies the
// synchronous field rules only and never calls the API.
func (h *NewClusterHandler) Validate(c echo.Context) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return ErrorBadRequest(c, "Invalid request body")
	}

	st := form.New(h.validator, req.Initial)
	st.SetValues(req.Values)

	return c.JSON(http.StatusOK, &ValidateResponse{
		Errors:    st.Errors,
		Dirty:     st.Dirty(),
		Valid:     st.Valid(),
		CanSubmit: st.CanSubmit(),
	})
}
