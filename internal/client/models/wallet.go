package models

// WalletBalance is expressed in satoshis.
type WalletBalance struct {
	Confirmed   int64 `json:"confirmed"`
	Unconfirmed int64 `json:"unconfirmed"`
	Total       int64 `json:"total"`
}

// WalletAddress is the cluster's receiving address.
type WalletAddress struct {
	Address     string `json:"address"`
	AddressType string `json:"address_type"` // p2wpkh | p2tr
}
