package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"tripatlas/internal/services"
)

// CountryHandler handles country guide API requests
type CountryHandler struct {
	countries *services.CountryService
}

// NewCountryHandler creates a new country handler
func NewCountryHandler(countries *services.CountryService) *CountryHandler {
	return &CountryHandler{countries: countries}
}

// Get returns the guide for a country, generating it on a cache miss.
// Search history is recorded by the client through POST
// /api/user/search-history, not here, so prefetches and retries never
// pollute the log.
// GET /api/country?name=Japan
func (h *CountryHandler) Get(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Country name is required",
		})
	}

	country, err := h.countries.GetCountry(c.Context(), name)
	if err != nil {
		var genErr *services.GenerationFailedError
		if errors.As(err, &genErr) {
			log.Printf("❌ [COUNTRY-API] Generation failed for %q: %v", name, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Could not generate country guide. Please try again later.",
			})
		}
		log.Printf("❌ [COUNTRY-API] Lookup failed for %q: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load country guide",
		})
	}

	return c.JSON(fiber.Map{
		"data":  country,
		"stale": country.Stale,
	})
}

// Search returns name/slug summaries matching a prefix or substring.
// GET /api/country/search?q=ja
func (h *CountryHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Search query is required",
		})
	}

	results, err := h.countries.SearchCountries(c.Context(), query)
	if err != nil {
		log.Printf("❌ [COUNTRY-API] Search failed for %q: %v", query, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	return c.JSON(fiber.Map{
		"data": results,
	})
}
