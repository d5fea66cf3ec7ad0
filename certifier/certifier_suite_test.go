package certifier

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCertifier(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Certifier HTTP Service Suite")
}
