package mapper

// Canonical field keys plus the mapping pseudo-targets. The three
// reference-only targets are retained for display during the wizard but are
// never written into canonical records.
const (
	FieldDate              = "date"
	FieldCostCategory      = "cost_category"
	FieldSubCategory       = "sub_category"
	FieldSKU               = "sku"
	FieldDescription       = "item_description"
	FieldSupplier          = "supplier"
	FieldOrderedBy         = "ordered_by"
	FieldDepartment        = "department"
	FieldCostCenter        = "cost_center"
	FieldPONumber          = "po_number"
	FieldQuantity          = "quantity"
	FieldUnitPrice         = "unit_price_usd"
	FieldTotalAmount       = "total_amount_usd"
	FieldBudgetType        = "budget_type"
	FieldPriceImpact       = "price_impact_usd"
	FieldVolumeImpact      = "volume_impact_usd"
	FieldInsourcingSavings = "insourcing_savings_usd"
	FieldNotes             = "notes"

	RefCurrency    = "_currency"
	RefPOItem      = "_po_item"
	RefCompanyCode = "_company_code"
	TargetSkip     = "_skip"
)

// CanonicalFields lists the record fields in canonical column order.
func CanonicalFields() []string {
	return []string{
		FieldDate, FieldCostCategory, FieldSubCategory, FieldSKU,
		FieldDescription, FieldSupplier, FieldOrderedBy, FieldDepartment,
		FieldCostCenter, FieldPONumber, FieldQuantity, FieldUnitPrice,
		FieldTotalAmount, FieldBudgetType, FieldPriceImpact,
		FieldVolumeImpact, FieldInsourcingSavings, FieldNotes,
	}
}

// NumericFields are the canonical fields parsed with the numeric parser.
var NumericFields = map[string]bool{
	FieldQuantity:          true,
	FieldUnitPrice:         true,
	FieldTotalAmount:       true,
	FieldPriceImpact:       true,
	FieldVolumeImpact:      true,
	FieldInsourcingSavings: true,
}

// IsReference reports whether target is one of the reference-only
// pseudo-targets.
func IsReference(target string) bool {
	return target == RefCurrency || target == RefPOItem || target == RefCompanyCode
}

// SAPField describes a known SAP column: its canonical target and a display
// label.
type SAPField struct {
	Target string
	Label  string
}

// sapFieldMap translates SAP S4 HANA column names (technical names, English
// and German report labels, and their historical variants) to canonical
// fields. Lookup is exact after trimming; the source casing is significant.
var sapFieldMap = map[string]SAPField{
	// Purchase order
	"EBELN":               {FieldPONumber, "PO Number"},
	"Purchasing Document": {FieldPONumber, "PO Number"},
	"Purchase Order":      {FieldPONumber, "PO Number"},
	"PO Number":           {FieldPONumber, "PO Number"},
	"Einkaufsbeleg":       {FieldPONumber, "PO Number"},
	"Einkaufsbel.":        {FieldPONumber, "PO Number"},

	// Material / SKU
	"MATNR":           {FieldSKU, "Material Number / SKU"},
	"Material":        {FieldSKU, "Material Number / SKU"},
	"Material Number": {FieldSKU, "Material Number / SKU"},
	"Materialnr.":     {FieldSKU, "Material Number / SKU"},
	"Materialnummer":  {FieldSKU, "Material Number / SKU"},

	// Description
	"TXZ01":                {FieldDescription, "Description"},
	"Short Text":           {FieldDescription, "Description"},
	"Description":          {FieldDescription, "Description"},
	"Material Description": {FieldDescription, "Description"},
	"Item Text":            {FieldDescription, "Description"},
	"Kurztext":             {FieldDescription, "Description"},
	"Bezeichnung":          {FieldDescription, "Description"},
	"Material description": {FieldDescription, "Description"},

	// Supplier / vendor
	"LIFNR":         {FieldSupplier, "Vendor Number"},
	"NAME1":         {FieldSupplier, "Vendor Name"},
	"Vendor":        {FieldSupplier, "Vendor"},
	"Vendor Name":   {FieldSupplier, "Vendor Name"},
	"Supplier":      {FieldSupplier, "Supplier"},
	"Supplier Name": {FieldSupplier, "Supplier Name"},
	"Lieferant":     {FieldSupplier, "Vendor"},
	"Kreditor":      {FieldSupplier, "Vendor"},
	"Name 1":        {FieldSupplier, "Vendor Name"},
	"Vendor name":   {FieldSupplier, "Vendor Name"},

	// Quantity
	"MENGE":          {FieldQuantity, "Quantity"},
	"PO Quantity":    {FieldQuantity, "Quantity"},
	"Order Quantity": {FieldQuantity, "Quantity"},
	"Quantity":       {FieldQuantity, "Quantity"},
	"Bestellmenge":   {FieldQuantity, "Quantity"},
	"Qty":            {FieldQuantity, "Quantity"},
	"PO quantity":    {FieldQuantity, "Quantity"},

	// Unit price
	"NETPR":      {FieldUnitPrice, "Net Price"},
	"Net Price":  {FieldUnitPrice, "Net Price"},
	"Price":      {FieldUnitPrice, "Net Price"},
	"Unit Price": {FieldUnitPrice, "Net Price"},
	"Nettopreis": {FieldUnitPrice, "Net Price"},
	"Net price":  {FieldUnitPrice, "Net Price"},

	// Net value / total
	"NETWR":           {FieldTotalAmount, "Net Value"},
	"Net Value":       {FieldTotalAmount, "Net Value"},
	"Net Order Value": {FieldTotalAmount, "Net Value"},
	"Net order value": {FieldTotalAmount, "Net Value"},
	"Amount":          {FieldTotalAmount, "Net Value"},
	"Total Amount":    {FieldTotalAmount, "Net Value"},
	"Nettowert":       {FieldTotalAmount, "Net Value"},
	"Nettobest.wert":  {FieldTotalAmount, "Net Value"},
	"Value":           {FieldTotalAmount, "Net Value"},
	"Net order val.":  {FieldTotalAmount, "Net Value"},

	// Cost center
	"KOSTL":        {FieldCostCenter, "Cost Center"},
	"Cost Center":  {FieldCostCenter, "Cost Center"},
	"CostCenter":   {FieldCostCenter, "Cost Center"},
	"Cost center":  {FieldCostCenter, "Cost Center"},
	"Kostenstelle": {FieldCostCenter, "Cost Center"},

	// Date
	"BEDAT":         {FieldDate, "PO Date"},
	"PO Date":       {FieldDate, "PO Date"},
	"Document Date": {FieldDate, "Document Date"},
	"Posting Date":  {FieldDate, "Posting Date"},
	"Created On":    {FieldDate, "Created On"},
	"Belegdatum":    {FieldDate, "Document Date"},
	"Doc. Date":     {FieldDate, "Document Date"},
	"Order Date":    {FieldDate, "Order Date"},
	"Delivery Date": {FieldDate, "Delivery Date"},

	// Created by / requisitioner
	"ERNAM":             {FieldOrderedBy, "Created By"},
	"Created By":        {FieldOrderedBy, "Created By"},
	"Created by":        {FieldOrderedBy, "Created By"},
	"Requisitioner":     {FieldOrderedBy, "Requisitioner"},
	"Angelegt von":      {FieldOrderedBy, "Created By"},
	"Anforderer":        {FieldOrderedBy, "Requisitioner"},
	"Requisitioner name": {FieldOrderedBy, "Requisitioner"},

	// Material group -> category
	"MATKL":            {FieldCostCategory, "Material Group"},
	"Material Group":   {FieldCostCategory, "Material Group"},
	"Material Grp":     {FieldCostCategory, "Material Group"},
	"Mat. Group":       {FieldCostCategory, "Material Group"},
	"Warengruppe":      {FieldCostCategory, "Material Group"},
	"Commodity":        {FieldCostCategory, "Material Group"},
	"Purchasing Group": {FieldDepartment, "Purchasing Group"},
	"Purch. Group":     {FieldDepartment, "Purchasing Group"},
	"Einkaufsgruppe":   {FieldDepartment, "Purchasing Group"},

	// Plant
	"WERKS": {FieldDepartment, "Plant"},
	"Plant": {FieldDepartment, "Plant"},
	"Werk":  {FieldDepartment, "Plant"},

	// Currency (reference only)
	"WAERS":             {RefCurrency, "Currency"},
	"Currency":          {RefCurrency, "Currency"},
	"Währung":           {RefCurrency, "Currency"},
	"Doc. Currency":     {RefCurrency, "Currency"},
	"Document Currency": {RefCurrency, "Currency"},

	// PO line item (reference only)
	"EBELP":   {RefPOItem, "PO Item"},
	"Item":    {RefPOItem, "PO Item"},
	"PO Item": {RefPOItem, "PO Item"},

	// Company code (reference only)
	"BUKRS":        {RefCompanyCode, "Company Code"},
	"Company Code": {RefCompanyCode, "Company Code"},
	"Buchungskreis": {RefCompanyCode, "Company Code"},

	// GL account
	"SAKTO":       {FieldSubCategory, "GL Account"},
	"G/L Account": {FieldSubCategory, "GL Account"},
	"GL Account":  {FieldSubCategory, "GL Account"},
	"Sachkonto":   {FieldSubCategory, "GL Account"},
}

// LookupSAPField returns the SAP synonym entry for a header, trimming
// surrounding whitespace first.
func LookupSAPField(header string) (SAPField, bool) {
	f, ok := sapFieldMap[trim(header)]
	return f, ok
}
