package controllers

import (
	"net/http"

	"github.com/closetly/closetly-backend/api/responses"
	"github.com/closetly/closetly-backend/internal/analysis"
	"github.com/closetly/closetly-backend/internal/uploads"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
	"github.com/closetly/closetly-backend/pkg/logger"
)

// AnalyzeOutfit accepts an outfit photo plus optional occasion/weather
// fields and returns the analyzer's verdict. The image is validated and
// stored, but the stub analyzer never inspects it.
func AnalyzeOutfit(analyzer analysis.Analyzer, uploader uploads.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if analyzer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analysis service unavailable"))
			return
		}

		if _, err := requireUser(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "expected multipart form data"))
			return
		}

		if files := r.MultipartForm.File[uploadFormField]; len(files) > 0 && uploader != nil {
			if _, err := uploader.Save(r.Context(), files[0]); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := analyzer.Analyze(r.Context(), analysis.Request{
			Occasion: r.FormValue("occasion"),
			Weather:  r.FormValue("weather"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
