package query

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

func writeAPIMapsFile(t *testing.T, maps *domain.APIMaps) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api_maps.json.gz")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gzWriter := gzip.NewWriter(file)
	if err := json.NewEncoder(gzWriter).Encode(maps); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := gzWriter.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

func TestServerDataLoad(t *testing.T) {
	path := writeAPIMapsFile(t, testMaps())
	data, err := NewServerData(path, "", config.ServerConfig{}, logger.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if gene := data.GetGene("SPAC1.01"); gene == nil {
		t.Errorf("expected SPAC1.01 in loaded data")
	}
	if gene := data.GetGene("SPAC9.99"); gene != nil {
		t.Errorf("unexpected gene: %+v", gene)
	}
}

func TestServerDataLoadMissingFile(t *testing.T) {
	if _, err := NewServerData("/no/such/file.json.gz", "", config.ServerConfig{}, logger.NewNop()); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestServerDataGeneSubsetsMerge(t *testing.T) {
	mapsPath := writeAPIMapsFile(t, testMaps())
	subsetsPath := filepath.Join(t.TempDir(), "gene_subsets.json")
	subsetsJSON := `{"extra:subset": {"name": "extra:subset", "elements": ["SPAC1.03"]}}`
	if err := os.WriteFile(subsetsPath, []byte(subsetsJSON), 0o644); err != nil {
		t.Fatalf("write subsets: %v", err)
	}

	data, err := NewServerData(mapsPath, subsetsPath, config.ServerConfig{}, logger.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	node := &QueryNode{Subset: &SubsetNode{SubsetName: "extra:subset"}}
	rows, err := Exec(&Query{Constraints: node}, data.Maps())
	if err != nil {
		t.Fatalf("exec failed: %v", err)
	}
	if len(rows) != 1 || rows[0].GeneUniquename != "SPAC1.03" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestServerDataSubsetPrefixAliases(t *testing.T) {
	mapsPath := writeAPIMapsFile(t, testMaps())
	serverCfg := config.ServerConfig{SubsetPrefixesToStrip: []string{"interpro:"}}
	data, err := NewServerData(mapsPath, "", serverCfg, logger.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// the stripped name resolves to the same subset as the prefixed one
	for _, name := range []string{"interpro:IPR000001", "IPR000001"} {
		node := &QueryNode{Subset: &SubsetNode{SubsetName: name}}
		rows, err := Exec(&Query{Constraints: node}, data.Maps())
		if err != nil {
			t.Fatalf("exec %q failed: %v", name, err)
		}
		if len(rows) != 2 {
			t.Errorf("subset %q rows = %+v, want 2", name, rows)
		}
	}
}

func TestServerDataReloadKeepsOldSnapshotOnFailure(t *testing.T) {
	path := writeAPIMapsFile(t, testMaps())
	data, err := NewServerData(path, "", config.ServerConfig{}, logger.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := data.Reload(); err == nil {
		t.Fatalf("expected reload to fail after file removal")
	}
	if gene := data.GetGene("SPAC1.01"); gene == nil {
		t.Errorf("old snapshot lost after failed reload")
	}
}

// Concurrent readers must always see a complete snapshot while reloads
// swap it out.
func TestServerDataReloadAtomicity(t *testing.T) {
	path := writeAPIMapsFile(t, testMaps())
	data, err := NewServerData(path, "", config.ServerConfig{}, logger.NewNop())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	wantGenes := len(testMaps().GeneQueryData)
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for reader := 0; reader < 4; reader++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				maps := data.Maps()
				if maps == nil {
					t.Error("reader saw a nil snapshot")
					return
				}
				if len(maps.GeneQueryData) != wantGenes {
					t.Errorf("reader saw %d genes, want %d", len(maps.GeneQueryData), wantGenes)
					return
				}
			}
		}()
	}
	for i := 0; i < 20; i++ {
		if err := data.Reload(); err != nil {
			t.Fatalf("reload failed: %v", err)
		}
	}
	close(stop)
	wg.Wait()
}
