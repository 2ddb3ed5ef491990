package records

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// ExportCSV writes the records in canonical column order with RFC 4180
// quoting. The output re-imports losslessly through the generic import path.
func ExportCSV(w io.Writer, recs []Record) error {
	if err := gocsv.Marshal(&recs, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// templateExample mirrors the downloadable template's single illustrative
// row. The category value carries embedded commas, so it demonstrates the
// quoting rules too.
const templateExample = `2026-01,"Clinical, Lab and scientific services",Analytical testing,LAB-0042,HPLC Column C18 250mm,Biorelliance,Jan Novak,QC Laboratory,CC-4200,PO-2026-0142,10,450.00,4500.00,Actual,-120.00,-50.00,0,Sample entry`

// Template returns a blank import template: the canonical header row plus
// one example row.
func Template() string {
	header := "date,cost_category,sub_category,sku,item_description,supplier,ordered_by," +
		"department,cost_center,po_number,quantity,unit_price_usd,total_amount_usd," +
		"budget_type,price_impact_usd,volume_impact_usd,insourcing_savings_usd,notes"
	return header + "\n" + templateExample + "\n"
}
