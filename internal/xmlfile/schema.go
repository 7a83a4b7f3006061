package xmlfile

// Element layouts of the GnuCash v2 XML format. Tags use local names only;
// the gnc, act, trn, cust, ... prefixes are ignored.

type commodityRef struct {
	Space string `xml:"space"`
	ID    string `xml:"id"`
}

type timestamp struct {
	Date string `xml:"date"`
}

type slot struct {
	Key   string `xml:"key"`
	Value string `xml:"value"`
}

type xmlCommodity struct {
	Space    string `xml:"space"`
	ID       string `xml:"id"`
	Name     string `xml:"name"`
	Fraction string `xml:"fraction"`
}

type xmlPrice struct {
	ID        string       `xml:"id"`
	Commodity commodityRef `xml:"commodity"`
	Currency  commodityRef `xml:"currency"`
	Time      timestamp    `xml:"time"`
	Source    string       `xml:"source"`
	Type      string       `xml:"type"`
	Value     string       `xml:"value"`
}

type xmlPriceDB struct {
	Prices []xmlPrice `xml:"price"`
}

type xmlAccount struct {
	Name        string       `xml:"name"`
	ID          string       `xml:"id"`
	Type        string       `xml:"type"`
	Commodity   commodityRef `xml:"commodity"`
	Code        string       `xml:"code"`
	Description string       `xml:"description"`
	Parent      string       `xml:"parent"`
	Slots       []slot       `xml:"slots>slot"`
}

type xmlSplit struct {
	ID             string `xml:"id"`
	Memo           string `xml:"memo"`
	Action         string `xml:"action"`
	ReconcileState string `xml:"reconciled-state"`
	Value          string `xml:"value"`
	Quantity       string `xml:"quantity"`
	Account        string `xml:"account"`
	Lot            string `xml:"lot"`
}

type xmlTransaction struct {
	ID          string       `xml:"id"`
	Currency    commodityRef `xml:"currency"`
	Num         string       `xml:"num"`
	DatePosted  timestamp    `xml:"date-posted"`
	DateEntered timestamp    `xml:"date-entered"`
	Description string       `xml:"description"`
	Splits      []xmlSplit   `xml:"splits>split"`
}

type xmlTaxTableEntry struct {
	Account string `xml:"acct"`
	Amount  string `xml:"amount"`
	Type    string `xml:"type"`
}

type xmlTaxTable struct {
	GUID    string             `xml:"guid"`
	Name    string             `xml:"name"`
	Parent  string             `xml:"parent"`
	Entries []xmlTaxTableEntry `xml:"entries>GncTaxTableEntry"`
}

// xmlParty is a customer or vendor.
type xmlParty struct {
	GUID        string       `xml:"guid"`
	Name        string       `xml:"name"`
	Number      string       `xml:"id"`
	Notes       string       `xml:"notes"`
	Terms       string       `xml:"terms"`
	TaxIncluded string       `xml:"taxincluded"`
	Active      string       `xml:"active"`
	Currency    commodityRef `xml:"currency"`
	UseTaxTable string       `xml:"use-tt"`
	TaxTable    string       `xml:"taxtable"`
}

type xmlEmployee struct {
	GUID     string       `xml:"guid"`
	Username string       `xml:"username"`
	Number   string       `xml:"id"`
	Name     string       `xml:"addr>name"`
	Active   string       `xml:"active"`
	Rate     string       `xml:"rate"`
	Currency commodityRef `xml:"currency"`
}

type ownerRef struct {
	Type string `xml:"type"`
	ID   string `xml:"id"`
}

type xmlJob struct {
	GUID      string   `xml:"guid"`
	Number    string   `xml:"id"`
	Name      string   `xml:"name"`
	Reference string   `xml:"reference"`
	Owner     ownerRef `xml:"owner"`
	Active    string   `xml:"active"`
}

type xmlInvoice struct {
	GUID      string       `xml:"guid"`
	Number    string       `xml:"id"`
	Owner     ownerRef     `xml:"owner"`
	Opened    timestamp    `xml:"opened"`
	Posted    timestamp    `xml:"posted"`
	Terms     string       `xml:"terms"`
	BillingID string       `xml:"billing_id"`
	Notes     string       `xml:"notes"`
	Active    string       `xml:"active"`
	PostTxn   string       `xml:"posttxn"`
	PostLot   string       `xml:"postlot"`
	PostAcc   string       `xml:"postacc"`
	Currency  commodityRef `xml:"currency"`
}

type xmlEntry struct {
	GUID           string    `xml:"guid"`
	Date           timestamp `xml:"date"`
	Entered        timestamp `xml:"entered"`
	Description    string    `xml:"description"`
	Action         string    `xml:"action"`
	Notes          string    `xml:"notes"`
	Qty            string    `xml:"qty"`
	InvAccount     string    `xml:"i-acct"`
	InvPrice       string    `xml:"i-price"`
	Invoice        string    `xml:"invoice"`
	InvTaxable     string    `xml:"i-taxable"`
	InvTaxIncluded string    `xml:"i-taxincluded"`
	InvTaxTable    string    `xml:"i-taxtable"`
	BillAccount    string    `xml:"b-acct"`
	BillPrice      string    `xml:"b-price"`
	Bill           string    `xml:"bill"`
	BillTaxable    string    `xml:"b-taxable"`
	BillTaxIncl    string    `xml:"b-taxincluded"`
	BillTaxTable   string    `xml:"b-taxtable"`
}

type xmlBillTerm struct {
	GUID         string `xml:"guid"`
	Name         string `xml:"name"`
	Description  string `xml:"desc"`
	DueDays      string `xml:"days>due-days"`
	DiscountDays string `xml:"days>disc-days"`
	Discount     string `xml:"days>discount"`
}
