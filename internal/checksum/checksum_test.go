package checksum

import (
	"testing"

	"consolidate/internal/store"
)

func TestBatchHashStableAndOrderSensitive(t *testing.T) {
	a := store.BusinessKey{DocNo: "D-1", InternalDocumentNumber: "I-1", RegistrationDate: "2024-03-01", SellerParty: "s", PurchaserParty: "p"}
	b := store.BusinessKey{DocNo: "D-2", InternalDocumentNumber: "I-2", RegistrationDate: "2024-03-01", SellerParty: "s", PurchaserParty: "p"}

	h1 := BatchHash([]store.BusinessKey{a, b})
	h2 := BatchHash([]store.BusinessKey{a, b})
	if h1 != h2 {
		t.Fatal("hash not deterministic")
	}
	if BatchHash([]store.BusinessKey{b, a}) == h1 {
		t.Fatal("hash should be order-sensitive")
	}
	if len(h1) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(h1))
	}
}

func TestBatchHashIgnoresNonKeyContent(t *testing.T) {
	r1 := store.Record{DocNo: "D-1", SellerParty: "s", PurchaserParty: "p", AreaName: "one"}
	r2 := store.Record{DocNo: "D-1", SellerParty: "s", PurchaserParty: "p", AreaName: "two"}
	if BatchHash([]store.BusinessKey{r1.Key()}) != BatchHash([]store.BusinessKey{r2.Key()}) {
		t.Fatal("non-key columns must not change the batch hash")
	}
}
