package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"IndoHomz/internal/catalog"
	"IndoHomz/internal/logger"
	"IndoHomz/internal/models"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/utils"

	"github.com/go-chi/chi/v5"
)

var (
	maxUploadSize  int64 = 10 << 20 // 10 MB
	allowedImageExt      = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	errBadImage          = errors.New("image must be jpg, png or webp")
)

/* ========= admin UI (not API) ========= */

// AdminDashboard shows the headline counts.
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Analytics.Dashboard(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("admin dashboard")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/dashboard.html", map[string]any{
		"Title":     "Admin · Dashboard",
		"Dashboard": d,
	})
}

func (h *Handler) AdminProperties(w http.ResponseWriter, r *http.Request) {
	list, err := h.Props.Grid(r.Context(), catalog.Filter{Query: r.URL.Query().Get("q")})
	if err != nil {
		logger.Log.WithError(err).Error("admin properties")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/properties.html", map[string]any{
		"Title":      "Admin · Properties",
		"Properties": list,
		"Query":      r.URL.Query().Get("q"),
	})
}

func (h *Handler) AdminNewProperty(w http.ResponseWriter, r *http.Request) {
	h.renderPropertyForm(w, r, &models.Property{IsAvailable: true}, "")
}

func (h *Handler) AdminEditProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	p, err := h.Props.Get(r.Context(), id)
	if errors.Is(err, utils.ErrNotFound) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	h.renderPropertyForm(w, r, p, "")
}

func (h *Handler) renderPropertyForm(w http.ResponseWriter, r *http.Request, p *models.Property, errMsg string) {
	title := "Admin · New property"
	if p.ID != 0 {
		title = "Admin · Edit " + p.Title
	}
	data := map[string]any{
		"Title":       title,
		"Property":    p,
		"Types":       models.PropertyTypes,
		"Furnishings": []string{models.Furnished, models.SemiFurnished, models.Unfurnished},
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	h.render(w, r, "admin/property_form.html", data)
}

// AdminCreateProperty handles the multipart "new property" form.
func (h *Handler) AdminCreateProperty(w http.ResponseWriter, r *http.Request) {
	upd, img, err := h.parsePropertyForm(w, r)
	if err != nil {
		h.renderPropertyForm(w, r, &models.Property{}, err.Error())
		return
	}
	req := models.PropertyRequest{
		Title:         *upd.Title,
		Price:         *upd.Price,
		Location:      *upd.Location,
		Area:          *upd.Area,
		City:          *upd.City,
		PropertyType:  *upd.PropertyType,
		Bedrooms:      upd.Bedrooms,
		Bathrooms:     upd.Bathrooms,
		AreaSqft:      upd.AreaSqft,
		Furnishing:    *upd.Furnishing,
		ImageURL:      *upd.ImageURL,
		Amenities:     *upd.Amenities,
		Highlights:    *upd.Highlights,
		Description:   *upd.Description,
		IsAvailable:   upd.IsAvailable,
		AvailableFrom: upd.AvailableFrom,
	}
	if err := validate.Struct(req); err != nil {
		draft := req.ToProperty()
		h.renderPropertyForm(w, r, &draft, formValidationMessage(err))
		return
	}
	if img != nil {
		path, err := h.saveImage(img, req.Title)
		if err != nil {
			draft := req.ToProperty()
			h.renderPropertyForm(w, r, &draft, err.Error())
			return
		}
		req.ImageURL = path
	}
	p, err := h.Props.Create(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Error("admin create property")
		if img != nil {
			h.removeUpload(req.ImageURL)
			req.ImageURL = ""
		}
		draft := req.ToProperty()
		h.renderPropertyForm(w, r, &draft, "Could not save the property")
		return
	}
	flashRedirect(w, r, "/admin/properties", "Created "+p.Title)
}

// AdminUpdateProperty handles the edit form. Every field is posted, so the
// update replaces them all; an empty file input keeps the current image.
func (h *Handler) AdminUpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	current, err := h.Props.Get(r.Context(), id)
	if errors.Is(err, utils.ErrNotFound) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	upd, img, err := h.parsePropertyForm(w, r)
	if err != nil {
		h.renderPropertyForm(w, r, current, err.Error())
		return
	}
	if err := validate.Struct(upd); err != nil {
		h.renderPropertyForm(w, r, current, formValidationMessage(err))
		return
	}
	// blank selects and image keep what is stored
	for _, f := range []**string{&upd.ImageURL, &upd.Location, &upd.City, &upd.PropertyType, &upd.Furnishing} {
		if *f != nil && **f == "" {
			*f = nil
		}
	}
	previous := current.ImageURL
	if img != nil {
		path, err := h.saveImage(img, *upd.Title)
		if err != nil {
			h.renderPropertyForm(w, r, current, err.Error())
			return
		}
		upd.ImageURL = &path
	}
	p, err := h.Props.Update(r.Context(), id, *upd)
	if err != nil {
		logger.Log.WithError(err).WithField("property_id", id).Error("admin update property")
		if img != nil {
			h.removeUpload(*upd.ImageURL)
		}
		h.renderPropertyForm(w, r, current, "Could not save the property")
		return
	}
	if p.ImageURL != previous {
		h.removeUpload(previous)
	}
	flashRedirect(w, r, "/admin/properties", "Saved "+p.Title)
}

func (h *Handler) AdminDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	var image string
	if p, err := h.Props.Get(r.Context(), id); err == nil {
		image = p.ImageURL
	}
	if err := h.Props.Delete(r.Context(), id, true); err != nil && !errors.Is(err, utils.ErrNotFound) {
		logger.Log.WithError(err).WithField("property_id", id).Error("admin delete property")
		flashRedirect(w, r, "/admin/properties", "Delete failed")
		return
	}
	h.removeUpload(image)
	flashRedirect(w, r, "/admin/properties", "Property deleted")
}

// AdminToggleAvailability flips is_available; ?available= or the form
// field of the same name forces a value.
func (h *Handler) AdminToggleAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	p, err := h.Props.Get(r.Context(), id)
	if errors.Is(err, utils.ErrNotFound) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	next := !p.IsAvailable
	if v, err := strconv.ParseBool(r.FormValue("available")); err == nil {
		next = v
	}
	if _, err := h.Props.SetAvailability(r.Context(), id, next); err != nil {
		flashRedirect(w, r, "/admin/properties", "Update failed")
		return
	}
	state := "rented"
	if next {
		state = "available"
	}
	flashRedirect(w, r, "/admin/properties", p.Title+" marked "+state)
}

// AdminLeads lists leads, optionally for one status.
func (h *Handler) AdminLeads(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.IsValidStatus(status) {
		status = ""
	}
	list, err := h.Leads.List(r.Context(), repositories.LeadFilter{Status: status, Limit: 200})
	if err != nil {
		logger.Log.WithError(err).Error("admin leads")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/leads.html", map[string]any{
		"Title":    "Admin · Leads",
		"Leads":    list,
		"Statuses": models.LeadStatuses,
		"Status":   status,
	})
}

func (h *Handler) AdminLeadStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	status := r.FormValue("status")
	if !models.IsValidStatus(status) {
		flashRedirect(w, r, "/admin/leads", "Unknown status")
		return
	}
	if _, err := h.Leads.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		flashRedirect(w, r, "/admin/leads", "Update failed")
		return
	}
	flashRedirect(w, r, "/admin/leads", fmt.Sprintf("Lead #%d marked %s", id, models.StageLabel(status)))
}

/* ========= form helpers ========= */

// parsePropertyForm reads the property form into an update with every
// text field set. An uploaded image is checked but not stored; the caller
// saves it once the rest of the form is valid.
func (h *Handler) parsePropertyForm(w http.ResponseWriter, r *http.Request) (*models.PropertyUpdate, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, errors.New("upload too large (limit 10 MB)")
	}

	field := func(k string) *string {
		v := strings.TrimSpace(r.FormValue(k))
		return &v
	}
	upd := &models.PropertyUpdate{
		Title:        field("title"),
		Price:        field("price"),
		Location:     field("location"),
		Area:         field("area"),
		City:         field("city"),
		PropertyType: field("property_type"),
		Furnishing:   field("furnishing"),
		ImageURL:     field("image_url"),
		Amenities:    field("amenities"),
		Highlights:   field("highlights"),
		Description:  field("description"),
		Bedrooms:     formInt(r, "bedrooms"),
		Bathrooms:    formInt(r, "bathrooms"),
		AreaSqft:     formInt(r, "area_sqft"),
	}
	available := r.FormValue("is_available") != ""
	upd.IsAvailable = &available
	if d, err := time.Parse("2006-01-02", r.FormValue("available_from")); err == nil {
		upd.AvailableFrom = &d
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		return upd, nil, nil
	}
	hdr := r.MultipartForm.File["image"][0]
	if hdr.Size == 0 && hdr.Filename == "" {
		return upd, nil, nil
	}
	if !allowedImageExt[strings.ToLower(filepath.Ext(hdr.Filename))] {
		return nil, nil, errBadImage
	}
	return upd, hdr, nil
}

// saveImage stores an upload under <UploadDir>/properties and returns its
// public /uploads path.
func (h *Handler) saveImage(hdr *multipart.FileHeader, title string) (string, error) {
	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if !allowedImageExt[ext] {
		return "", errBadImage
	}
	file, err := hdr.Open()
	if err != nil {
		return "", errors.New("could not read the uploaded image")
	}
	defer file.Close()

	dir := filepath.Join(h.Cfg.UploadDir, "properties")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare upload dir: %w", err)
	}
	base := utils.Slugify(title)
	if base == "" {
		base = "property"
	}
	name := fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("write image: %w", err)
	}
	return uploadPrefix + name, nil
}

const uploadPrefix = "/uploads/properties/"

// removeUpload deletes a file saved by saveImage. Other URLs are ignored.
func (h *Handler) removeUpload(url string) {
	name, ok := strings.CutPrefix(url, uploadPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return
	}
	path := filepath.Join(h.Cfg.UploadDir, "properties", name)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Log.WithError(err).WithField("path", path).Warn("remove upload")
	}
}

func formInt(r *http.Request, key string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	if err != nil {
		return nil
	}
	return &v
}

func formValidationMessage(err error) string {
	details := validationDetails(err)
	if len(details) == 0 {
		return "Please check the form"
	}
	parts := make([]string, 0, len(details))
	for f, rule := range details {
		parts = append(parts, f+" ("+rule+")")
	}
	sort.Strings(parts)
	return "Please check: " + strings.Join(parts, ", ")
}
