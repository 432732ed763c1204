package httpapp

import (
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/store"
	"github.com/alphabot-ai/quill/internal/upload"
	"github.com/alphabot-ai/quill/internal/view"
)

const photoRoute = "/photos/"

// handleUploadPhoto godoc
//
//	@Summary		Upload a photo
//	@Description	Stores the file under a sanitized name. Allowed extensions: txt, pdf, png, jpg, jpeg, gif.
//	@Tags			Photos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"File to upload"
//	@Success		200		{object}	view.ImageView
//	@Failure		400		{object}	errorResponse	"Missing file or extension not allowed"
//	@Failure		401		{object}	errorResponse
//	@Failure		403		{object}	errorResponse
//	@Failure		413		{object}	errorResponse	"File too large"
//	@Router			/photos [post]
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, kindValidation, "file is too large")
			return
		}
		s.fail(w, r, validationErrorf("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	name, err := s.photos.Save(header.Filename, file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, kindValidation, "file is too large")
			return
		}
		s.failMutation(w, r, err)
		return
	}

	img := model.Image{URL: photoRoute + name, Filename: name, CreatedAt: time.Now()}
	id, err := s.store.CreateImage(r.Context(), &img)
	if err != nil {
		s.removePhotoFile(r.Context(), name)
		s.failMutation(w, r, err)
		return
	}
	img.ID = id
	s.logger.Info("photo uploaded", "image_id", id, "filename", name)
	writeJSON(w, http.StatusOK, view.NewImage(img))
}

// handleGetPhoto godoc
//
//	@Summary		Download a photo
//	@Tags			Photos
//	@Produce		octet-stream
//	@Param			filename	path		string	true	"Stored file name"
//	@Success		200			{file}		file
//	@Failure		404			{object}	errorResponse	"Photo not found"
//	@Router			/photos/{filename} [get]
func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request, filename string) {
	if _, err := s.store.GetImageByFilename(r.Context(), filename); err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := s.photos.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, upload.ErrInvalidFilename) {
			s.fail(w, r, store.ErrNotFound)
			return
		}
		s.fail(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.ServeContent(w, r, filename, info.ModTime(), f)
}

// handleDeletePhoto godoc
//
//	@Summary		Delete a photo
//	@Description	Removes the photo record, then the stored file.
//	@Tags			Photos
//	@Security		BearerAuth
//	@Param			filename	path	string	true	"Stored file name"
//	@Success		204
//	@Failure		401	{object}	errorResponse
//	@Failure		403	{object}	errorResponse
//	@Failure		404	{object}	errorResponse	"Photo not found"
//	@Router			/photos/{filename} [delete]
func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request, filename string) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	img, err := s.store.GetImageByFilename(r.Context(), filename)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteImage(r.Context(), img.ID); err != nil {
		s.failMutation(w, r, err)
		return
	}
	s.removePhotoFile(r.Context(), img.Filename)
	s.logger.Info("photo deleted", "image_id", img.ID, "filename", img.Filename)
	w.WriteHeader(http.StatusNoContent)
}
