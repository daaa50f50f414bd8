package server_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kubev2v/parallel-queue/internal/config"
	"github.com/kubev2v/parallel-queue/internal/server"
)

var _ = Describe("Server", func() {
	var cfg *config.Configuration

	BeforeEach(func() {
		cfg = config.NewConfigurationWithOptionsAndDefaults(
			config.WithServer(config.Server{ServerMode: "prod", HTTPPort: 8000}),
		)
	})

	get := func(h http.Handler, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	It("should mount handlers under /api/v1", func() {
		srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
			router.GET("/hello", func(c *gin.Context) { c.String(http.StatusOK, "hi") })
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		w := get(srv.Handler(), "/api/v1/hello")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("hi"))

		Expect(get(srv.Handler(), "/hello").Code).To(Equal(http.StatusNotFound))
		Expect(get(srv.Handler(), "/metrics").Code).To(Equal(http.StatusNotFound))
	})

	It("should serve metrics", func() {
		reg := prometheus.NewRegistry()
		c := prometheus.NewCounter(prometheus.CounterOpts{Name: "pq_test_total", Help: "test"})
		reg.MustRegister(c)
		c.Inc()

		srv, err := server.NewServer(cfg, func(*gin.RouterGroup) {}, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		Expect(err).NotTo(HaveOccurred())

		w := get(srv.Handler(), "/metrics")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("pq_test_total 1"))
	})

	It("should recover from panicking handlers", func() {
		srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
			router.GET("/panic", func(*gin.Context) { panic("boom") })
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(get(srv.Handler(), "/api/v1/panic").Code).To(Equal(http.StatusInternalServerError))
	})

	It("should refuse unknown modes", func() {
		cfg.Server.ServerMode = "staging"
		_, err := server.NewServer(cfg, func(*gin.RouterGroup) {}, nil)
		Expect(err).To(HaveOccurred())
	})
})
