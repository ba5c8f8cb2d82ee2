// Command mcp-server exposes the gosigma tools over HTTP for AI agent frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server --port 8080
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/njchilds90/gosigma"

	"github.com/alexflint/go-arg"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Args are what are used to build the CLI.
type Args struct {
	Port int `arg:"--port" default:"8080" help:"port to listen on"`

	Release bool `arg:"--release" help:"run gin in release mode"`

	MaxDegree int `arg:"--max-degree" default:"64" help:"largest degree estimate a tool call may simplify"`

	MaxTerms int64 `arg:"--max-terms" default:"1048576" help:"most summation terms one evaluation may add up"`

	MaxCheckRange int64 `arg:"--max-check-range" default:"10000" help:"most points one check may visit"`
}

// Limits returns the tool call limits the flags ask for.
func (obj *Args) Limits() gosigma.Limits {
	return gosigma.Limits{
		MaxDegree:     obj.MaxDegree,
		MaxTerms:      obj.MaxTerms,
		MaxCheckRange: obj.MaxCheckRange,
	}
}

// metrics are the counters the server exports on /metrics.
type metrics struct {
	toolCalls *prometheus.CounterVec // labelled by tool and errorful
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosigma_tool_calls_total",
				Help: "Number of tool calls that have run.",
			},
			// tool: normalized tool name
			// errorful: did the call return an error
			[]string{"tool", "errorful"},
		),
	}
	reg.MustRegister(m.toolCalls)
	return m
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Request-Id", uuid.NewString())
		c.Next()
	}
}

func jsonError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// newRouter builds the HTTP routes. The registry is the one /metrics serves
// and every tool call runs under limits.
func newRouter(reg *prometheus.Registry, limits gosigma.Limits) *gin.Engine {
	m := newMetrics(reg)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), requestID())

	// POST /tool: handle a tool call
	router.POST("/tool", func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		defer c.Request.Body.Close()

		dec := json.NewDecoder(c.Request.Body)
		dec.DisallowUnknownFields()

		var req gosigma.ToolRequest
		if err := dec.Decode(&req); err != nil {
			jsonError(c, http.StatusBadRequest, err.Error())
			return
		}
		// Ensure there's no trailing junk.
		if dec.More() {
			jsonError(c, http.StatusBadRequest, "invalid JSON: trailing data")
			return
		}

		resp := limits.HandleToolCall(req)
		m.toolCalls.With(prometheus.Labels{
			"tool":     gosigma.ToolName(req.Tool),
			"errorful": strconv.FormatBool(resp.Error != ""),
		}).Inc()
		c.JSON(http.StatusOK, resp)
	})

	// GET /schema: return tool schema for agent registration
	router.GET("/schema", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(gosigma.MCPToolSpec()))
	})

	// GET /health: liveness check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return router
}

// Main program that returns error.
func Main() error {
	args := Args{}
	parser, err := arg.NewParser(arg.Config{Program: "mcp-server"}, &args)
	if err != nil {
		// programming error
		return err
	}
	err = parser.Parse(os.Args[1:])
	if err == arg.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	if err != nil {
		return err
	}
	if args.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := fmt.Sprintf(":%d", args.Port)
	log.Printf("gosigma MCP server listening on %s", addr)
	log.Printf("  POST /tool    execute a tool call")
	log.Printf("  GET  /schema  tool schema for agent registration")
	log.Printf("  GET  /health  health check")
	log.Printf("  GET  /metrics prometheus metrics")

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(prometheus.NewRegistry(), args.Limits()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func main() {
	if err := Main(); err != nil {
		log.Fatal(err)
	}
}
