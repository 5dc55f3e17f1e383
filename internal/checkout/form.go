// Package checkout implements the Papara checkout modal: field validation,
// the discount toggle, package selection and submission to the payment service.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kozymacro/papara-checkout/internal/config"
	"github.com/kozymacro/papara-checkout/internal/model"
	"github.com/kozymacro/papara-checkout/internal/payment"
)

// Gateway sends a purchase request and returns the URL to send the buyer to.
type Gateway interface {
	Purchase(ctx context.Context, req model.PurchaseRequest) (string, error)
}

// Recorder stores the outcome of a submission that reached the payment service.
type Recorder interface {
	RecordAttempt(ctx context.Context, outcome Outcome) error
}

// FieldState is what an input shows: its value, styling and error text.
type FieldState struct {
	Value   string
	Valid   bool
	Invalid bool
	Error   string
}

// View is a snapshot of the form used for rendering.
type View struct {
	Email           FieldState
	Quantity        FieldState
	Discount        FieldState
	HasDiscount     bool
	DiscountVisible bool
	ModalOpen       bool
	Selection       model.Selection
}

// Field returns the state of the named input.
func (v View) Field(field Field) FieldState {
	switch field {
	case FieldEmail:
		return v.Email
	case FieldQuantity:
		return v.Quantity
	case FieldDiscount:
		return v.Discount
	}
	return FieldState{}
}

// Status classifies the result of Submit.
type Status int

const (
	// StatusInvalid means local validation failed and nothing was sent.
	StatusInvalid Status = iota
	// StatusRedirect means the payment service returned a checkout URL.
	StatusRedirect
	// StatusRejected means the payment service answered with an error message.
	StatusRejected
	// StatusFailed means the request failed or the response was unusable.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusRedirect:
		return "redirect"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome describes a single Submit call.
type Outcome struct {
	Status      Status
	Request     model.PurchaseRequest
	RedirectURL string
	Field       Field // Input marked by a rejection, empty if none
	Err         error
}

// Form holds the modal state for one visitor.
type Form struct {
	gateway    Gateway
	recorder   Recorder
	logger     *slog.Logger
	siteURL    string
	clearDelay time.Duration

	mu              sync.Mutex
	email           FieldState
	quantity        FieldState
	discount        FieldState
	hasDiscount     bool
	discountVisible bool
	modalOpen       bool
	selection       model.Selection
	clearTimer      *time.Timer
}

// Option is a functional option for configuring a Form.
type Option func(*Form)

// WithClearDelay sets how long an unchecked discount code is kept before clearing.
func WithClearDelay(d time.Duration) Option {
	return func(f *Form) {
		f.clearDelay = d
	}
}

// WithRecorder stores every submission that reaches the payment service.
func WithRecorder(r Recorder) Option {
	return func(f *Form) {
		f.recorder = r
	}
}

// WithLogger sets a custom logger for the form.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// WithSiteURL sets the site the success and cancel URLs point to.
func WithSiteURL(siteURL string) Option {
	return func(f *Form) {
		f.siteURL = siteURL
	}
}

// NewForm creates a form in its reset state with the modal closed.
// Returns error if gateway is nil.
func NewForm(gateway Gateway, opts ...Option) (*Form, error) {
	if gateway == nil {
		return nil, errors.New("payment gateway is required")
	}

	f := &Form{
		gateway:    gateway,
		logger:     slog.Default(),
		siteURL:    config.DefaultSiteURL,
		clearDelay: config.DiscountClearDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.reset()

	return f, nil
}

// View returns a snapshot of the current state.
func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	return View{
		Email:           f.email,
		Quantity:        f.quantity,
		Discount:        f.discount,
		HasDiscount:     f.hasDiscount,
		DiscountVisible: f.discountVisible,
		ModalOpen:       f.modalOpen,
		Selection:       f.selection,
	}
}

// ValidateEmail checks value and updates the email error state.
func (f *Form) ValidateEmail(value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validate(FieldEmail, value)
}

// ValidateQuantity checks value and updates the quantity error state.
func (f *Form) ValidateQuantity(value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validate(FieldQuantity, value)
}

// ValidateDiscount checks value and updates the discount error state.
func (f *Form) ValidateDiscount(value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validate(FieldDiscount, value)
}

// Input handles typing into a field: the value is stored, validated, and the
// valid/invalid styling is recomputed. Empty values carry neither style.
func (f *Form) Input(field Field, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.state(field)
	if st == nil {
		return false
	}
	st.Value = value
	ok := f.validate(field, value)

	st.Valid, st.Invalid = false, false
	if value != "" {
		st.Valid = ok
		st.Invalid = !ok
	}
	return ok
}

// SetValue stores a field value without validating it.
func (f *Form) SetValue(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if st := f.state(field); st != nil {
		st.Value = value
	}
}

// ToggleDiscount shows or hides the discount code input. Hiding it wipes the
// code after the clear delay unless the box has been checked again by then.
func (f *Form) ToggleDiscount(checked bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hasDiscount = checked
	if checked {
		f.discountVisible = true
		f.stopClearTimer()
		return
	}

	f.discountVisible = false
	f.stopClearTimer()
	f.clearTimer = time.AfterFunc(f.clearDelay, f.clearDiscountIfUnchecked)
}

func (f *Form) clearDiscountIfUnchecked() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.hasDiscount {
		return
	}
	f.discount = FieldState{}
}

// SelectPackage records the chosen package, resets the inputs and opens the modal.
func (f *Form) SelectPackage(sel model.Selection) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.selection = sel
	f.reset()
	f.modalOpen = true
}

// Close dismisses the modal. The entered values are kept.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modalOpen = false
}

// Stop cancels a pending discount clear.
func (f *Form) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopClearTimer()
}

// Submit validates every field and, when all pass, sends one purchase request.
// pageLang is the language attribute of the page the modal was opened on.
// Concurrent calls each send their own request.
func (f *Form) Submit(ctx context.Context, pageLang string) Outcome {
	f.mu.Lock()
	email := f.email.Value
	quantity := f.quantity.Value
	discount := ""
	if f.hasDiscount {
		discount = f.discount.Value
	}

	emailOK := f.validate(FieldEmail, email)
	quantityOK := f.validate(FieldQuantity, quantity)
	discountOK := f.validate(FieldDiscount, discount)
	if !emailOK || !quantityOK || !discountOK {
		f.mu.Unlock()
		return Outcome{Status: StatusInvalid}
	}

	n, _ := ParseQuantity(quantity)
	lang := ResolveLanguage(pageLang)
	successURL, cancelURL := ReturnURLs(f.siteURL, lang)
	req := model.PurchaseRequest{
		Email:        email,
		Language:     lang,
		Quantity:     n,
		DayCount:     f.selection.DayCount,
		DiscountCode: discount,
		SuccessURL:   successURL,
		CancelURL:    cancelURL,
	}
	f.mu.Unlock()

	out := Outcome{Request: req}
	url, err := f.gateway.Purchase(ctx, req)
	if err == nil {
		out.Status = StatusRedirect
		out.RedirectURL = url
	} else {
		out.Status = StatusFailed
		out.Err = err

		var apiErr *payment.APIError
		if errors.As(err, &apiErr) {
			out.Status = StatusRejected
			if field, ok := ParseField(apiErr.Field); ok {
				f.reject(field, apiErr.Message)
				out.Field = field
			}
		}
		f.logger.Error("papara payment error",
			"status", out.Status.String(),
			"field", string(out.Field),
			"day_count", req.DayCount,
			"error", err,
		)
	}

	f.record(ctx, out)
	return out
}

func (f *Form) reject(field Field, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.state(field)
	st.Invalid = true
	st.Error = message + "."
}

func (f *Form) record(ctx context.Context, out Outcome) {
	if f.recorder == nil {
		return
	}
	if err := f.recorder.RecordAttempt(ctx, out); err != nil {
		f.logger.Warn("failed to record checkout attempt", "error", err)
	}
}

// validate applies the validator for field. Caller must hold f.mu.
func (f *Form) validate(field Field, value string) bool {
	st := f.state(field)
	if st == nil {
		return false
	}
	if msg := Check(field, value); msg != "" {
		st.Invalid = true
		st.Error = msg
		return false
	}
	st.Invalid = false
	st.Error = ""
	return true
}

// reset restores the default input state. Caller must hold f.mu.
func (f *Form) reset() {
	f.stopClearTimer()
	f.email = FieldState{}
	f.quantity = FieldState{Value: "1"}
	f.discount = FieldState{}
	f.hasDiscount = false
	f.discountVisible = false
}

func (f *Form) stopClearTimer() {
	if f.clearTimer != nil {
		f.clearTimer.Stop()
		f.clearTimer = nil
	}
}

func (f *Form) state(field Field) *FieldState {
	switch field {
	case FieldEmail:
		return &f.email
	case FieldQuantity:
		return &f.quantity
	case FieldDiscount:
		return &f.discount
	}
	return nil
}
