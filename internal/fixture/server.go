// Package fixture serves generated artifacts as a read-only mock REST
// API, one collection route per entity.
package fixture

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gofiber/fiber/v2"
)

const artifactSuffix = "-generated.json"

type Server struct {
	app  *fiber.App
	dir  string
	port int
	data map[string][]map[string]any
}

// NewServer loads every artifact under dir and prepares the routes.
func NewServer(dir string, port int) (*Server, error) {
	data, err := loadArtifacts(dir)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		color.Yellow("⚠️  No generated artifacts found in %s", dir)
	}

	app := fiber.New(fiber.Config{
		AppName:               "setup-data fixture",
		DisableStartupMessage: true,
	})

	server := &Server{
		app:  app,
		dir:  dir,
		port: port,
		data: data,
	}
	server.setupRoutes()
	return server, nil
}

func loadArtifacts(dir string) (map[string][]map[string]any, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	data := make(map[string][]map[string]any)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, artifactSuffix) {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		var records []map[string]any
		if err := json.Unmarshal(raw, &records); err != nil {
			color.Yellow("⚠️  Skipping %s: %v", name, err)
			continue
		}

		route := strings.TrimSuffix(name, artifactSuffix)
		data[route] = records
	}
	return data, nil
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api")
	api.Get("/", s.handleIndex)
	api.Get("/:entity", s.handleCollection)
	api.Get("/:entity/:index", s.handleRecord)
}

// Routes lists the served collection names in sorted order.
func (s *Server) Routes() []string {
	routes := make([]string, 0, len(s.data))
	for route := range s.data {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	collections := make([]fiber.Map, 0, len(s.data))
	for _, route := range s.Routes() {
		collections = append(collections, fiber.Map{
			"entity": route,
			"path":   "/api/" + route,
			"count":  len(s.data[route]),
		})
	}
	return c.JSON(fiber.Map{"collections": collections})
}

func (s *Server) handleCollection(c *fiber.Ctx) error {
	records, ok := s.data[strings.ToLower(c.Params("entity"))]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("unknown entity %s", c.Params("entity")),
		})
	}
	return c.JSON(records)
}

func (s *Server) handleRecord(c *fiber.Ctx) error {
	records, ok := s.data[strings.ToLower(c.Params("entity"))]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("unknown entity %s", c.Params("entity")),
		})
	}

	index, err := c.ParamsInt("index")
	if err != nil || index < 0 || index >= len(records) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("no record at index %s", c.Params("index")),
		})
	}
	return c.JSON(records[index])
}

// Start probes for a free port from the configured one and serves until
// interrupted.
func (s *Server) Start() error {
	port := findAvailablePort(s.port)
	if port != s.port {
		fmt.Printf("⚠️  Port %d is in use, using port %d instead\n", s.port, port)
		s.port = port
	}

	url := fmt.Sprintf("http://localhost:%d", s.port)
	color.Cyan("🚀 Fixture API serving %s on %s", s.dir, url)
	for _, route := range s.Routes() {
		fmt.Printf("   GET %s/api/%s (%d records)\n", url, route, len(s.data[route]))
	}

	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// findAvailablePort walks upward from startPort until a listener binds.
func findAvailablePort(startPort int) int {
	for port := startPort; port < startPort+100; port++ {
		ln, err := net.Listen("tcp4", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		ln.Close()
		return port
	}
	return startPort
}
