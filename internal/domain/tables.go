package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	// Storefront
	&Product{},
	&Sale{},
	&SaleItem{},
	&TrackEvent{},
}
