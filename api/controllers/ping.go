package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront-catalog/api/middleware"
	"github.com/angelmondragon/storefront-catalog/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "public", "status": "ok"}
		if locale := middleware.LocaleFromContext(r.Context()); locale != "" {
			payload["locale"] = locale.String()
		}
		responses.WriteSuccess(w, payload)
	}
}
