package chainindex

// ReferralURL builds the provider's landing page URL tagged with the
// given referral ID. Unknown providers get "#" so the client always has
// a well-formed link target.
func ReferralURL(provider, referralID string) string {
	if referralID == "" {
		referralID = "bridgeaggregator"
	}
	base, ok := referralBases[provider]
	if !ok {
		return "#"
	}
	return base + "/?ref=" + referralID
}

var referralBases = map[string]string{
	"lifi":      "https://jumper.exchange",
	"jumper":    "https://jumper.exchange",
	"stargate":  "https://stargate.finance",
	"socket":    "https://socketbridge.com",
	"squid":     "https://app.squidrouter.com",
	"rango":     "https://rango.exchange",
	"xyfinance": "https://app.xy.finance",
	"rubic":     "https://app.rubic.exchange",
	"openocean": "https://openocean.finance",
	"0x":        "https://matcha.xyz",
	"1inch":     "https://app.1inch.io",
	"across":    "https://across.to",
}
