// Package xmldoc serializa cotizaciones como documentos UBL 2.1 Quotation
// para intercambio con otros sistemas (ERP del cliente, facturación).
package xmldoc

import (
	"bytes"
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/domka/erp-api/internal/application/quoting"
)

// Namespaces UBL 2.1.
const (
	NsQuotation = "urn:oasis:names:specification:ubl:schema:xsd:Quotation-2"
	NsCac       = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc       = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	ublVersion = "2.1"
	dateLayout = "2006-01-02"
)

var _ quoting.QuoteXMLExporter = (*QuoteXMLExporter)(nil)

// QuoteXMLExporter construye el XML con etree.
type QuoteXMLExporter struct {
	currency string
}

// NewQuoteXMLExporter crea el exportador; currency es el código ISO 4217 de los importes.
func NewQuoteXMLExporter(currency string) *QuoteXMLExporter {
	if currency == "" {
		currency = "COP"
	}
	return &QuoteXMLExporter{currency: currency}
}

// ExportQuoteXML genera el documento con indentación de dos espacios.
func (e *QuoteXMLExporter) ExportQuoteXML(_ context.Context, doc quoting.QuoteDocument) ([]byte, error) {
	if doc.Quote == nil || doc.Company == nil || doc.Client == nil {
		return nil, fmt.Errorf("xml: faltan quote, company o client")
	}
	q := doc.Quote
	amount := q.Amount.StringFixed(2)

	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := x.CreateElement("Quotation")
	root.CreateAttr("xmlns", NsQuotation)
	root.CreateAttr("xmlns:cac", NsCac)
	root.CreateAttr("xmlns:cbc", NsCbc)

	cbc(root, "UBLVersionID", ublVersion)
	cbc(root, "ID", q.Number)
	cbc(root, "UUID", q.ID)
	cbc(root, "IssueDate", q.CreatedAt.UTC().Format(dateLayout))
	cbc(root, "Note", q.Description)
	cbc(root, "Note", "Estado: "+q.Status)
	cbc(root, "PricingCurrencyCode", e.currency)

	validity := root.CreateElement("cac:ValidityPeriod")
	cbc(validity, "EndDate", q.ValidUntil.Format(dateLayout))

	seller := root.CreateElement("cac:SellerSupplierParty").CreateElement("cac:Party")
	cbc(seller.CreateElement("cac:PartyIdentification"), "ID", doc.Company.ID)
	cbc(seller.CreateElement("cac:PartyName"), "Name", doc.Company.Name)

	buyer := root.CreateElement("cac:BuyerCustomerParty").CreateElement("cac:Party")
	cbc(buyer.CreateElement("cac:PartyIdentification"), "ID", doc.Client.ID)
	cbc(buyer.CreateElement("cac:PartyName"), "Name", doc.Client.Name)
	if doc.Client.CompanyName != "" {
		cbc(buyer.CreateElement("cac:PartyLegalEntity"), "RegistrationName", doc.Client.CompanyName)
	}
	if doc.Client.Email != "" || doc.Client.Phone != "" {
		contact := buyer.CreateElement("cac:Contact")
		if doc.Client.Phone != "" {
			cbc(contact, "Telephone", doc.Client.Phone)
		}
		if doc.Client.Email != "" {
			cbc(contact, "ElectronicMail", doc.Client.Email)
		}
	}

	total := root.CreateElement("cac:QuotedMonetaryTotal")
	e.money(total, "LineExtensionAmount", amount)
	e.money(total, "PayableAmount", amount)

	line := root.CreateElement("cac:QuotationLine").CreateElement("cac:LineItem")
	cbc(line, "ID", "1")
	qty := cbc(line, "Quantity", "1")
	qty.CreateAttr("unitCode", "EA")
	e.money(line, "LineExtensionAmount", amount)
	cbc(line.CreateElement("cac:Item"), "Description", q.Description)

	x.Indent(2)
	var out bytes.Buffer
	if _, err := x.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("xml: serializar: %w", err)
	}
	return out.Bytes(), nil
}

// cbc agrega <cbc:tag>value</cbc:tag> bajo parent.
func cbc(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement("cbc:" + tag)
	el.SetText(value)
	return el
}

func (e *QuoteXMLExporter) money(parent *etree.Element, tag, value string) {
	cbc(parent, tag, value).CreateAttr("currencyID", e.currency)
}
