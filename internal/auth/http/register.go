package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/aussiebroadwan/tubetab/internal/auth/service"
	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/aussiebroadwan/tubetab/pkg/httpx"
)

const (
	// DefaultMaxUploadBytes bounds the whole multipart body.
	DefaultMaxUploadBytes = 10 << 20

	maxFieldBytes = 4 << 10
)

// RegisterHandler serves POST /api/v1/users/register.
type RegisterHandler struct {
	Registration *service.RegistrationService

	// TempDir receives the uploaded files until the media backend takes
	// them. Empty means os.TempDir().
	TempDir  string
	MaxBytes int64
}

// ServeHTTP godoc
//
//	@Summary		Register a user
//	@Description	Creates an account. The avatar image is required, the cover image is optional.
//	@Tags			Users
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			fullName	formData	string								true	"Full name"
//	@Param			email		formData	string								true	"Email address"
//	@Param			username	formData	string								true	"Username"
//	@Param			password	formData	string								true	"Password"
//	@Param			avatar		formData	file								true	"Avatar image"
//	@Param			coverImage	formData	file								false	"Cover image"
//	@Success		201			{object}	authsdk.Response[authsdk.User]		"created user"
//	@Failure		400			{object}	authsdk.Response[authsdk.Empty]		"missing fields or avatar"
//	@Failure		409			{object}	authsdk.Response[authsdk.Empty]		"username or email taken"
//	@Failure		413			{object}	authsdk.Response[authsdk.Empty]		"upload too large"
//	@Router			/api/v1/users/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handle(h.serve)(w, r)
}

func (h *RegisterHandler) serve(w http.ResponseWriter, r *http.Request) error {
	limit := h.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	form, err := h.readForm(r)
	defer form.cleanup()
	if err != nil {
		return err
	}

	u, err := h.Registration.Register(r.Context(), service.RegisterRequest{
		FullName:       form.fields["fullName"],
		Email:          form.fields["email"],
		Username:       form.fields["username"],
		Password:       form.fields["password"],
		AvatarPath:     form.files["avatar"],
		CoverImagePath: form.files["coverImage"],
	})
	if err != nil {
		return err
	}

	httpx.WriteJSON(w, http.StatusCreated,
		authsdk.NewResponse(http.StatusCreated, toSDKUser(u), "User registered successfully"))
	return nil
}

// spooledForm holds the text fields and the local paths of the file parts.
type spooledForm struct {
	fields map[string]string
	files  map[string]string
}

// cleanup removes whatever is still on disk. The registration flow normally
// gets there first.
func (f *spooledForm) cleanup() {
	for _, p := range f.files {
		_ = os.Remove(p)
	}
}

// readForm streams the multipart body, writing file parts straight to
// TempDir so nothing large is held in memory.
func (h *RegisterHandler) readForm(r *http.Request) (*spooledForm, error) {
	form := &spooledForm{fields: map[string]string{}, files: map[string]string{}}

	mr, err := r.MultipartReader()
	if err != nil {
		return form, authsdk.NewValidationError("expected a multipart/form-data body")
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			return form, formError(err)
		}

		name := part.FormName()
		switch {
		case name == "avatar" || name == "coverImage":
			if part.FileName() == "" {
				_ = part.Close()
				continue
			}
			p, err := h.spool(part)
			_ = part.Close()
			if err != nil {
				return form, formError(err)
			}
			if p != "" {
				form.files[name] = p
			}

		case name != "":
			b, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
			_ = part.Close()
			if err != nil {
				return form, formError(err)
			}
			if len(b) > maxFieldBytes {
				return form, authsdk.NewValidationError(fmt.Sprintf("field %q is too long", name))
			}
			v := string(b)
			if name != "password" {
				// the password is hashed exactly as sent, like login compares it
				v = strings.TrimSpace(v)
			}
			form.fields[name] = v

		default:
			_ = part.Close()
		}
	}
}

// spool copies a file part to disk and returns the path, or "" when the
// part was empty.
func (h *RegisterHandler) spool(part *multipart.Part) (string, error) {
	f, err := os.CreateTemp(h.TempDir, "upload-*")
	if err != nil {
		return "", err
	}

	n, err := io.Copy(f, part)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil || n == 0 {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func formError(err error) error {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return authsdk.NewAPIError(http.StatusRequestEntityTooLarge, "upload too large")
	}
	return authsdk.NewValidationError("malformed multipart body")
}
