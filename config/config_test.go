package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/staticvec/config"
)

var _ = Describe("Config", func() {
	vars := []string{
		"STATICVEC_DB",
		"STATICVEC_MONITOR_PORT",
		"STATICVEC_OPEN_BROWSER",
		"STATICVEC_BENCHTIME",
		"STATICVEC_SIZES",
		"STATICVEC_TRACE",
	}

	BeforeEach(func() {
		for _, v := range vars {
			GinkgoT().Setenv(v, "")
			os.Unsetenv(v)
		}
	})

	It("should apply defaults", func() {
		cfg, err := config.Parse()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.DB).To(BeEmpty())
		Expect(cfg.MonitorPort).To(Equal(0))
		Expect(cfg.OpenBrowser).To(BeFalse())
		Expect(cfg.BenchTime).To(Equal(200 * time.Millisecond))
		Expect(cfg.Sizes).To(Equal([]int{8, 64, 512, 4096, 8192}))
		Expect(cfg.Trace).To(BeFalse())
	})

	It("should read the environment", func() {
		GinkgoT().Setenv("STATICVEC_DB", "bench")
		GinkgoT().Setenv("STATICVEC_MONITOR_PORT", "8080")
		GinkgoT().Setenv("STATICVEC_BENCHTIME", "1s")
		GinkgoT().Setenv("STATICVEC_SIZES", "4,16")
		GinkgoT().Setenv("STATICVEC_TRACE", "true")

		cfg, err := config.Parse()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.DB).To(Equal("bench"))
		Expect(cfg.MonitorPort).To(Equal(8080))
		Expect(cfg.BenchTime).To(Equal(time.Second))
		Expect(cfg.Sizes).To(Equal([]int{4, 16}))
		Expect(cfg.Trace).To(BeTrue())
	})

	It("should report malformed values", func() {
		GinkgoT().Setenv("STATICVEC_MONITOR_PORT", "not-an-int")

		_, err := config.Parse()

		Expect(err).To(MatchError(ContainSubstring("parse env:")))
	})

	It("should validate ranges", func() {
		GinkgoT().Setenv("STATICVEC_SIZES", "8,0")

		_, err := config.Parse()

		Expect(err).To(MatchError(ContainSubstring("invalid size 0")))
	})

	It("should load a .env file", func() {
		path := filepath.Join(GinkgoT().TempDir(), ".env")
		Expect(os.WriteFile(path,
			[]byte("STATICVEC_DB=fromfile\nSTATICVEC_OPEN_BROWSER=true\n"),
			0o644)).To(Succeed())
		DeferCleanup(func() {
			os.Unsetenv("STATICVEC_DB")
			os.Unsetenv("STATICVEC_OPEN_BROWSER")
		})

		cfg, err := config.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.DB).To(Equal("fromfile"))
		Expect(cfg.OpenBrowser).To(BeTrue())
	})

	It("should skip missing .env files", func() {
		_, err := config.Load(filepath.Join(GinkgoT().TempDir(), ".env"))

		Expect(err).NotTo(HaveOccurred())
	})
})
