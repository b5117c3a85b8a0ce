package client_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/academicworkflow/awap/internal/client"
)

var _ = Describe("client config", func() {
	Describe("NewDefault", func() {
		It("uses the documented defaults", func() {
			cfg := client.NewDefault()
			Expect(cfg.BaseURL).To(Equal("http://localhost:8080"))
			Expect(cfg.RequestTimeout).To(Equal(30 * time.Second))
			Expect(cfg.WorkflowTimeout).To(Equal(300 * time.Second))
			Expect(cfg.InsecureSkipVerify).To(BeFalse())
		})

		It("honors the base URL env var", func() {
			GinkgoT().Setenv(client.APIURLEnvKey, "https://marking.example.com")
			cfg := client.NewDefault()
			Expect(cfg.BaseURL).To(Equal("https://marking.example.com"))
		})
	})

	Describe("Validate", func() {
		It("rejects an empty server", func() {
			cfg := client.NewDefault()
			cfg.BaseURL = ""
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("no server found")))
		})

		It("rejects a server without hostname", func() {
			cfg := client.NewDefault()
			cfg.BaseURL = "http://"
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("no hostname")))
		})

		It("rejects a max poll interval below the poll interval", func() {
			cfg := client.NewDefault()
			cfg.MaxPollInterval = cfg.PollInterval / 2
			Expect(cfg.Validate()).To(HaveOccurred())
		})
	})

	Describe("Persist and ParseConfigFile", func() {
		It("round-trips through the config file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "client.yaml")

			cfg := client.NewDefault()
			cfg.BaseURL = "https://marking.example.com"
			cfg.InsecureSkipVerify = true
			Expect(cfg.Persist(path)).To(Succeed())

			parsed, err := client.ParseConfigFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.BaseURL).To(Equal("https://marking.example.com"))
			Expect(parsed.InsecureSkipVerify).To(BeTrue())
		})

		It("fails on a missing file", func() {
			_, err := client.ParseConfigFile(filepath.Join(GinkgoT().TempDir(), "absent.yaml"))
			Expect(err).To(HaveOccurred())
		})

		It("fails on an invalid file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "client.yaml")
			Expect(os.WriteFile(path, []byte("baseUrl: [not a string"), 0600)).To(Succeed())
			_, err := client.ParseConfigFile(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
