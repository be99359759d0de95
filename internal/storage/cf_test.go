package storage

import "testing"

func TestColumnFamilyIsolatesTags(t *testing.T) {
	db := NewMemory()
	blocks := Open(db, 0x01)
	accounts := Open(db, 0x02)

	if err := blocks.Put([]byte("k"), []byte("block-value")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := accounts.Put([]byte("k"), []byte("account-value")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := blocks.Get([]byte("k"))
	if err != nil {
		t.Fatalf("blocks.Get: %v", err)
	}
	if string(got) != "block-value" {
		t.Fatalf("blocks.Get = %q, want %q", got, "block-value")
	}

	got, err = accounts.Get([]byte("k"))
	if err != nil {
		t.Fatalf("accounts.Get: %v", err)
	}
	if string(got) != "account-value" {
		t.Fatalf("accounts.Get = %q, want %q", got, "account-value")
	}

	if blocks.Tag() != CF(0x01) {
		t.Errorf("Tag() = %v, want 0x01", blocks.Tag())
	}
}

func TestColumnFamilyTagged(t *testing.T) {
	cf := Open(NewMemory(), 0x05)
	tagged := cf.Tagged([]byte("abc"))
	if len(tagged) != 4 || tagged[0] != 0x05 || string(tagged[1:]) != "abc" {
		t.Fatalf("Tagged = %v, want [0x05 'a' 'b' 'c']", tagged)
	}
}

func TestColumnFamilyNewIteratorStripsTag(t *testing.T) {
	db := NewMemory()
	cf := Open(db, 0x09)

	if err := cf.Put([]byte("aaa"), []byte("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cf.Put([]byte("aab"), []byte("2")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	it := cf.NewIterator([]byte("aa"), false)
	if it == nil {
		t.Fatal("NewIterator returned nil for an iterable inner DB")
	}
	defer it.Close()

	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2: %v", len(keys), keys)
	}
	for _, k := range keys {
		if len(k) > 0 && k[0] == 0x09 {
			t.Fatalf("CF tag leaked into returned key %q", k)
		}
	}
}
