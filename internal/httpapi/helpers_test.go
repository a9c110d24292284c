package httpapi_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
)

func filepathTempDir() (string, error) {
	dir, err := os.MkdirTemp("", "staffing-httpapi-")
	if err != nil {
		return "", err
	}
	DeferCleanup(os.RemoveAll, dir)
	return dir, nil
}
