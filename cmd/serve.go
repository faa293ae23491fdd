package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/report-cli/internal/cost"
	"github.com/sells-group/report-cli/internal/report"
	"github.com/sells-group/report-cli/pkg/openai"
)

var servePort int

// generateRequest carries the narrative text plus pass-through report
// metadata. Only financial_text is processed; the rest is defaulted and
// echoed for the rendering layer.
type generateRequest struct {
	FinancialText    string `json:"financial_text"`
	ReportTitle      string `json:"report_title"`
	ReportSubtitle   string `json:"report_subtitle"`
	CompanyName      string `json:"company_name"`
	OrganizationName string `json:"organization_name"`
	ContactPhone     string `json:"contact_phone"`
	ContactEmail     string `json:"contact_email"`
	ContactWebsite   string `json:"contact_website"`
	PresentationDate string `json:"presentation_date"`
	PreparedBy       string `json:"prepared_by"`
	LogoURL          string `json:"logo_url,omitempty"`
}

// applyDefaults fills omitted metadata with the stock values.
func (r *generateRequest) applyDefaults() {
	if r.ReportTitle == "" {
		r.ReportTitle = "Financial Analysis Report"
	}
	if r.ReportSubtitle == "" {
		r.ReportSubtitle = "Comprehensive Financial Overview"
	}
	if r.CompanyName == "" {
		r.CompanyName = "DashAnalytix"
	}
	if r.OrganizationName == "" {
		r.OrganizationName = "Financial Analysis"
	}
	if r.ContactPhone == "" {
		r.ContactPhone = "+1-234-567-8900"
	}
	if r.ContactEmail == "" {
		r.ContactEmail = "contact@DashAnalytix.com"
	}
	if r.ContactWebsite == "" {
		r.ContactWebsite = "www.app.DashAnalytix.com"
	}
	if r.PresentationDate == "" {
		r.PresentationDate = time.Now().Format("January 2006")
	}
	if r.PreparedBy == "" {
		r.PreparedBy = "Analytics Team"
	}
}

type generateResponse struct {
	RequestID string           `json:"request_id"`
	Report    *report.Report   `json:"report"`
	Meta      *generateRequest `json:"meta"`
	Usage     cost.Summary     `json:"usage"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client, model, err := newCompletionClient(cfg)
		if err != nil {
			return err
		}
		calc := cost.NewCalculator(cfg.Pricing)

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"status":    "healthy",
				"timestamp": time.Now().Format(time.RFC3339),
			})
		})

		r.Post("/generate", func(w http.ResponseWriter, req *http.Request) {
			handleGenerate(w, req, client, model, calc)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func handleGenerate(w http.ResponseWriter, req *http.Request, client openai.Client, model string, calc *cost.Calculator) {
	var body generateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if body.FinancialText == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "financial_text is required"})
		return
	}
	body.applyDefaults()

	requestID := uuid.NewString()
	log := zap.L().With(zap.String("request_id", requestID))
	log.Info("generate request", zap.Int("text_len", len(body.FinancialText)))

	tracker := cost.NewTracker(calc)
	extractor, err := newExtractor(client, model, cfg, tracker)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	rep, err := extractor.Extract(req.Context(), body.FinancialText)
	tracker.Log("generate usage")

	// Metadata overrides the extracted headline fields.
	rep.Title = body.ReportTitle
	rep.Subtitle = body.ReportSubtitle
	if body.PresentationDate != "" {
		rep.ReportDate = body.PresentationDate
	}

	status := http.StatusOK
	if err != nil {
		// Zero metrics is the one pipeline failure surfaced to the caller.
		log.Warn("extraction produced no metrics", zap.Error(err))
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, generateResponse{
		RequestID: requestID,
		Report:    rep,
		Meta:      &body,
		Usage:     tracker.Summary(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
