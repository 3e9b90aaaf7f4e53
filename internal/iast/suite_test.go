package iast

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestIAST(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "IAST Suite")
}
