package entity

import "testing"

func TestSessionKeyFor_CaseInsensitiveAddress(t *testing.T) {
	a := SessionKeyFor("metamask", "0xAbCdEF0000000000000000000000000000000001")
	b := SessionKeyFor("metamask", "0xabcdef0000000000000000000000000000000001")
	if a != b {
		t.Errorf("keys differ for the same address: %q vs %q", a, b)
	}
	if a == SessionKeyFor("walletconnect", "0xAbCdEF0000000000000000000000000000000001") {
		t.Error("different connectors must yield different keys")
	}
}

func TestConnectionEventValid(t *testing.T) {
	cases := []struct {
		name  string
		event ConnectionEvent
		want  bool
	}{
		{"valid", ConnectionEvent{Address: "0xAbCdEF0000000000000000000000000000000001", ChainID: 1}, true},
		{"missing chain", ConnectionEvent{Address: "0xAbCdEF0000000000000000000000000000000001"}, false},
		{"missing address", ConnectionEvent{ChainID: 1}, false},
		{"short address", ConnectionEvent{Address: "0xabc", ChainID: 1}, false},
		{"no 0x prefix", ConnectionEvent{Address: "AbCdEF0000000000000000000000000000000001ab", ChainID: 1}, false},
		{"non-hex chars", ConnectionEvent{Address: "0xZZCdEF0000000000000000000000000000000001", ChainID: 1}, false},
	}
	for _, tc := range cases {
		if got := tc.event.Valid(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAssetIDFor(t *testing.T) {
	native := AssetIDFor("ethereum", "", "0xabc")
	if native != "ethereum/native/0xabc" {
		t.Errorf("native id: %q", native)
	}
	token := AssetIDFor("ethereum", "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", "0xabc")
	if token == native {
		t.Error("token and native ids must differ")
	}
}

func TestSessionOwnerAddress(t *testing.T) {
	a := SessionOwnerAddress(SessionKeyFor("metamask", "0xAbCdEF0000000000000000000000000000000001"))
	b := SessionOwnerAddress(SessionKeyFor("walletconnect", "0xabcdef0000000000000000000000000000000001"))
	if a != b {
		t.Errorf("owner address differs across connectors: %q vs %q", a, b)
	}
	if a != "0xabcdef0000000000000000000000000000000001" {
		t.Errorf("owner address: %q", a)
	}
}

func TestKnownAssetKind(t *testing.T) {
	for _, kind := range []AssetKind{AssetKindNative, AssetKindFungible, AssetKindNFT, AssetKindMultiToken} {
		if !KnownAssetKind(kind) {
			t.Errorf("%s should be known", kind)
		}
	}
	if KnownAssetKind("bond") {
		t.Error("unknown kind accepted")
	}
}
