package store_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridia/invoice-summary/internal/model"
	"github.com/veridia/invoice-summary/internal/store"
)

const validInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
         xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
         xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
  <cbc:ID>INV-%s</cbc:ID>
  <cbc:IssueDate>2025-02-05</cbc:IssueDate>
  <cbc:DocumentCurrencyCode>RON</cbc:DocumentCurrencyCode>
  <cac:AccountingSupplierParty>
    <cac:Party>
      <cac:PartyName><cbc:Name>ACME</cbc:Name></cac:PartyName>
    </cac:Party>
  </cac:AccountingSupplierParty>
  <cac:LegalMonetaryTotal>
    <cbc:PayableAmount currencyID="RON">50.00</cbc:PayableAmount>
  </cac:LegalMonetaryTotal>
  <cac:InvoiceLine>
    <cbc:ID>1</cbc:ID>
    <cbc:InvoicedQuantity unitCode="H87">5</cbc:InvoicedQuantity>
    <cbc:LineExtensionAmount currencyID="RON">50.00</cbc:LineExtensionAmount>
    <cac:Item><cbc:Name>Widget</cbc:Name></cac:Item>
    <cac:Price><cbc:PriceAmount currencyID="RON">10.00</cbc:PriceAmount></cac:Price>
  </cac:InvoiceLine>
</Invoice>`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadAll_SortedByFileName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.xml", replaceID(validInvoice, "B"))
	writeFile(t, dir, "a.xml", replaceID(validInvoice, "A"))

	docs, failures, err := store.New(dir).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, docs, 2)
	assert.Equal(t, "INV-A", docs[0].Number)
	assert.Equal(t, "INV-B", docs[1].Number)
}

func TestLoadAll_BrokenFileRecordedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.xml", replaceID(validInvoice, "OK"))
	writeFile(t, dir, "broken.xml", "<Invoice>not really")
	writeFile(t, dir, "notes.txt", "ignored: not xml")

	docs, failures, err := store.New(dir).LoadAll(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "INV-OK", docs[0].Number)

	require.Len(t, failures, 1)
	assert.Equal(t, "broken.xml", failures[0].DocumentNumber)

	var loadErr *model.LoadError
	require.ErrorAs(t, failures[0].Err, &loadErr)
	assert.Contains(t, loadErr.Path, "broken.xml")
}

func TestLoadAll_EmptyDirectory(t *testing.T) {
	docs, failures, err := store.New(t.TempDir()).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, failures)
}

func TestLoadAll_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.xml", replaceID(validInvoice, "A"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.New(dir).LoadAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func replaceID(tmpl, id string) string {
	return fmt.Sprintf(tmpl, id)
}
