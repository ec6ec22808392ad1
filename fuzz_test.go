package svd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	svd "github.com/KimNorgaard/go-svd"
	"github.com/KimNorgaard/go-svd/internal/testutil"
)

func FuzzRoundTrip(f *testing.F) {
	seedFiles, err := filepath.Glob("testdata/*.svd")
	if err != nil {
		f.Fatalf("failed to find seed files: %v", err)
	}
	for _, file := range seedFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			f.Fatalf("failed to read seed file %s: %v", file, err)
		}
		f.Add(data)
	}

	names, err := testutil.FixtureNames()
	if err != nil {
		f.Fatalf("failed to list fixtures: %v", err)
	}
	for _, name := range names {
		f.Add(testutil.Fixture(f, name))
	}

	f.Add([]byte(`<device schemaVersion="1.3"><name>X</name><peripherals/></device>`))
	f.Add([]byte(`<device schemaVersion="1.3"><name>X</name><peripherals><peripheral><registers><register><name>R</name><addressOffset>0</addressOffset><fields><field><name>F</name><bitRange>[3:0]</bitRange></field></fields></register></registers></peripheral></peripherals></device>`))
	f.Add([]byte(`<device schemaVersion="1.3"><name>&#13;&amp;</name><peripherals/></device>`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var first svd.Device
		if err := svd.Unmarshal(data, &first); err != nil {
			return
		}

		// Anything the decoder accepts must encode and decode to the same
		// model.
		out, err := svd.Marshal(&first)
		require.NoError(t, err, "Marshal failed for a successfully decoded device")

		var second svd.Device
		require.NoError(t, svd.Unmarshal(out, &second), "re-decoding failed:\n%s", out)
		require.Equal(t, first, second)
	})
}
