package routing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/iziplay/isbn-api/pkg/database"
	"github.com/iziplay/isbn-api/pkg/isbn"
	"github.com/iziplay/isbn-api/pkg/metrics"
	"github.com/iziplay/isbn-api/pkg/sync"
)

type PlainOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type StatsOutput struct {
	Body database.CachedStats
}

type SyncStatsOutput struct {
	Body sync.SyncStats
}

type LookupInput struct {
	ISBN string `query:"isbn" required:"true" doc:"ISBN-10 or ISBN-13, hyphenated or not, or the bare GTIN-13"`
}

type LookupOutput struct {
	Body struct {
		ISBN     isbn.ISBN     `json:"isbn"`
		GTIN     int64         `json:"gtin"`
		ISBN10   string        `json:"isbn10,omitempty"`
		Agency   string        `json:"agency"`
		Elements isbn.Elements `json:"elements"`
	}
}

type ValidateOutput struct {
	Body struct {
		Input string `json:"input"`
		Valid bool   `json:"valid"`
	}
}

type HyphenateOutput struct {
	Body struct {
		ISBN isbn.ISBN `json:"isbn"`
	}
}

type SynchronizeOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

func Setup(api huma.API) {
	api.UseMiddleware(authMiddleware(api))

	huma.Register(api, huma.Operation{
		OperationID: "HealthCheck",
		Method:      "GET",
		Path:        "/healthz",
		Summary:     "Health check",
		Description: "Check if the API is running",
		Tags:        []string{"Health"},
	}, func(ctx context.Context, input *struct{}) (*PlainOutput, error) {
		return &PlainOutput{
			ContentType: "text/plain",
			Body:        []byte("OK"),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "GetISBN",
		Method:      "GET",
		Path:        "/v1/isbn",
		Summary:     "Look up an ISBN",
		Description: "Parse, validate and decompose an ISBN against the current registration ranges",
		Tags:        []string{"ISBN"},
	}, func(ctx context.Context, input *LookupInput) (*LookupOutput, error) {
		parsed, err := isbn.Parse(input.ISBN)
		metrics.Default.ObserveParse(parseOutcome(err))
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("cannot parse %q as ISBN", input.ISBN), err)
		}
		resp := &LookupOutput{}
		resp.Body.ISBN = parsed
		resp.Body.GTIN = parsed.GTIN()
		resp.Body.ISBN10 = parsed.ISBN10()
		resp.Body.Agency = parsed.Agency()
		resp.Body.Elements = parsed.Elements()
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ValidateISBN",
		Method:      "GET",
		Path:        "/v1/validate",
		Summary:     "Validate an ISBN",
		Description: "Check the check digit of an ISBN-10 or ISBN-13 without consulting the registration ranges",
		Tags:        []string{"ISBN"},
	}, func(ctx context.Context, input *LookupInput) (*ValidateOutput, error) {
		resp := &ValidateOutput{}
		resp.Body.Input = input.ISBN
		resp.Body.Valid = isbn.IsValid(input.ISBN)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "HyphenateISBN",
		Method:      "GET",
		Path:        "/v1/hyphenate",
		Summary:     "Hyphenate an ISBN",
		Description: "Return the canonical hyphenated form of an ISBN",
		Tags:        []string{"ISBN"},
	}, func(ctx context.Context, input *LookupInput) (*HyphenateOutput, error) {
		parsed, err := isbn.Parse(input.ISBN)
		metrics.Default.ObserveParse(parseOutcome(err))
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("cannot hyphenate %q", input.ISBN), err)
		}
		resp := &HyphenateOutput{}
		resp.Body.ISBN = parsed
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "GetStatistics",
		Method:      "GET",
		Path:        "/v1/statistics",
		Summary:     "Get statistics",
		Description: "Get statistics about the stored registration ranges",
		Tags:        []string{"Statistics"},
	}, func(ctx context.Context, input *struct{}) (*StatsOutput, error) {
		stats := database.GetCachedStats()
		if stats == nil {
			go database.ComputeAndCacheStats(false)
			return nil, huma.Error503ServiceUnavailable("sync in progress or stats are being computed, please retry later")
		}
		return &StatsOutput{
			Body: *stats,
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "GetSyncStatistics",
		Method:      "GET",
		Path:        "/v1/statistics/sync",
		Summary:     "Get sync statistics",
		Description: "Get current sync progress and statistics",
		Tags:        []string{"Statistics"},
	}, func(ctx context.Context, input *struct{}) (*SyncStatsOutput, error) {
		resp := &SyncStatsOutput{}
		resp.Body = sync.GetStats()
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "Synchronize",
		Method:        "POST",
		Path:          "/v1/synchronize",
		Summary:       "Synchronize the ranges",
		Description:   "Fetch the published range message and refresh the registration ranges",
		Tags:          []string{"Synchronization"},
		DefaultStatus: http.StatusAccepted,
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *struct{}) (*SynchronizeOutput, error) {
		if sync.GetStats().IsRunning {
			return nil, huma.Error409Conflict("a synchronization is already running")
		}
		go func() {
			if err := sync.Sync(context.Background()); err != nil {
				log.Printf("Synchronization failed: %v", err)
			}
		}()
		resp := &SynchronizeOutput{}
		resp.Body.Status = "started"
		return resp, nil
	})
}

// parseOutcome maps a parse result to its metric label.
func parseOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, isbn.ErrInvalidLength):
		return "length"
	case errors.Is(err, isbn.ErrInvalidChecksum):
		return "checksum"
	case errors.Is(err, isbn.ErrUnassignedRange):
		return "range"
	}
	return "error"
}
