package lattice

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLatticeModels(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Line and ring models")
}
