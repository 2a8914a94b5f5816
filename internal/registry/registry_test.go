package registry

import (
	"reflect"
	"testing"
)

func TestResolveKnownChain(t *testing.T) {
	cfg := Resolve(BaseSepoliaChainID)
	if cfg.ChainID != BaseSepoliaChainID {
		t.Fatalf("chain id = %d, want %d", cfg.ChainID, BaseSepoliaChainID)
	}
}

func TestResolveUnknownChainFallsBack(t *testing.T) {
	cfg := Resolve(0x999)
	if cfg.ChainID != LiskSepoliaChainID {
		t.Fatalf("unknown chain must resolve to the default network, got %d", cfg.ChainID)
	}
}

func TestLookupUnknownChain(t *testing.T) {
	if _, ok := Lookup(1); ok {
		t.Fatalf("mainnet is not a supported network")
	}
}

func TestSupportedOrder(t *testing.T) {
	got := Supported()
	want := []uint64{LiskSepoliaChainID, BaseSepoliaChainID}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("supported = %v, want %v", got, want)
	}
}

func TestWithRPCURL(t *testing.T) {
	base := Default()
	overridden := WithRPCURL(base, "http://localhost:8545")
	if overridden.RPCURL != "http://localhost:8545" {
		t.Fatalf("rpc url not overridden: %s", overridden.RPCURL)
	}
	if overridden.Contracts != base.Contracts {
		t.Fatalf("contract addresses must not change with the rpc override")
	}
	if WithRPCURL(base, "").RPCURL != base.RPCURL {
		t.Fatalf("empty override must keep the default endpoint")
	}
}
