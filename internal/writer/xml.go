// =============================================================================
// Invoice Report Importer - XML Writer
// =============================================================================
//
// OUTPUT STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <invoiceReport month="2024-03">
//     <currencyRates>
//       <rate code="EUR">0.92</rate>
//     </currencyRates>
//     <invoices>
//       <invoice n="1" row="6">
//         <field name="Customer">Acme</field>
//         <field name="Notes"/>
//         <total>80</total>
//         <validationErrors>
//           <error>Missing required field "Status"</error>
//         </validationErrors>
//       </invoice>
//     </invoices>
//   </invoiceReport>
//
// Column names are free text ("Invoice #"), so they are carried in a name
// attribute instead of being used as element names. Invoices are numbered
// from 1 in output order.
//
// =============================================================================

package writer

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/ginjaninja78/invoice-report-importer/internal/invoice"
)

// =============================================================================
// GENERATION OPTIONS
// =============================================================================

// XMLOptions controls the XML layout.
type XMLOptions struct {
	// Indent is the string used for one level of indentation.
	Indent string

	// IncludeXMLDeclaration adds the <?xml ...?> header.
	IncludeXMLDeclaration bool
}

// DefaultXMLOptions returns two-space indentation with a declaration.
func DefaultXMLOptions() XMLOptions {
	return XMLOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// XML writes res with the default options.
func XML(w io.Writer, res *invoice.Result) error {
	return XMLWithOptions(w, res, DefaultXMLOptions())
}

// XMLWithOptions writes res as XML.
func XMLWithOptions(w io.Writer, res *invoice.Result, options XMLOptions) error {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	}
	writeElement(&buffer, buildDocument(res), options.Indent, 0)

	if _, err := w.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

// =============================================================================
// DOCUMENT TREE
// =============================================================================

type xmlAttr struct {
	name, value string
}

type xmlElement struct {
	name     string
	attrs    []xmlAttr
	value    string
	children []xmlElement
}

func buildDocument(res *invoice.Result) xmlElement {
	doc := xmlElement{
		name:  "invoiceReport",
		attrs: []xmlAttr{{"month", res.InvoicingMonth.String()}},
	}

	rates := xmlElement{name: "currencyRates"}
	for _, code := range res.CurrencyRates.Codes() {
		rate, _ := res.CurrencyRates.Rate(code)
		rates.children = append(rates.children, xmlElement{
			name:  "rate",
			attrs: []xmlAttr{{"code", code}},
			value: rate.String(),
		})
	}

	invoices := xmlElement{name: "invoices"}
	for i, inv := range res.Invoices {
		invoices.children = append(invoices.children, buildInvoiceElement(inv, i+1))
	}

	doc.children = []xmlElement{rates, invoices}
	return doc
}

func buildInvoiceElement(inv invoice.InvoiceRow, n int) xmlElement {
	element := xmlElement{
		name: "invoice",
		attrs: []xmlAttr{
			{"n", strconv.Itoa(n)},
			{"row", strconv.Itoa(inv.SourceRow)},
		},
	}

	for _, col := range inv.Columns {
		element.children = append(element.children, xmlElement{
			name:  "field",
			attrs: []xmlAttr{{"name", col}},
			value: formatCell(inv.Values[col]),
		})
	}

	total := xmlElement{name: "total"}
	if inv.Total != nil {
		total.value = inv.Total.String()
	}
	element.children = append(element.children, total)

	if len(inv.ValidationErrors) > 0 {
		errs := xmlElement{name: "validationErrors"}
		for _, msg := range inv.ValidationErrors {
			errs.children = append(errs.children, xmlElement{name: "error", value: msg})
		}
		element.children = append(element.children, errs)
	}

	return element
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// writeElement writes an element and its children, one element per line.
func writeElement(buffer *bytes.Buffer, element xmlElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.name)
	for _, attr := range element.attrs {
		fmt.Fprintf(buffer, " %s=\"%s\"", attr.name, escapeXML(attr.value))
	}

	if len(element.children) == 0 && element.value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.value != "" {
		buffer.WriteString(escapeXML(element.value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.children {
			writeElement(buffer, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.name)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters in XML content.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}
