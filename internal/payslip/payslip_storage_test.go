package payslip_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-payroll/internal/payslip"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDocumentStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "payslips")

	t.Run("With public base URL", func(t *testing.T) {
		store := payslip.NewLocalDocumentStore(dir, "https://files.example.test/payslips/")

		url, err := store.Save(context.Background(), "PS-202601-000001.pdf", []byte("%PDF-1.3"))

		require.NoError(t, err)
		assert.Equal(t, "https://files.example.test/payslips/PS-202601-000001.pdf", url)
		content, err := os.ReadFile(filepath.Join(dir, "PS-202601-000001.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.3", string(content))
	})

	t.Run("Strips directories from name", func(t *testing.T) {
		store := payslip.NewLocalDocumentStore(dir, "")

		path, err := store.Save(context.Background(), "../escape.pdf", []byte("x"))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "escape.pdf"), path)
	})
}
