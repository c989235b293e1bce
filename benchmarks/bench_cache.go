package benchmarks

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/akslib/aksview"
	mdbxgo "github.com/erigontech/mdbx-go/mdbx"
	"github.com/tecbot/gorocksdb"
	bolt "go.etcd.io/bbolt"
)

// Cached benchmark store directory
const benchCacheDir = "testdata/benchdb"

var (
	cacheMu   sync.Mutex
	viewFiles = make(map[string]string)
	mdbxEnvs  = make(map[string]*mdbxgo.Env)
	boltDBs   = make(map[string]*bolt.DB)
	rocksDBs  = make(map[string]*gorocksdb.DB)
)

// Every backend stores the same data set: numRecords fixed-size records
// holding the record index as a 64-bit value. The viewer addresses
// record i at offset i*8; the key-value stores use an 8-byte big-endian
// key so their iteration order matches the file order.
const recordSize = 8

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// getCachedViewFile returns the path of a cached record file, creating
// and populating it if needed. The file is stored in
// testdata/benchdb/records_<size>_aksview.bin
func getCachedViewFile(b *testing.B, size int) string {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	key := fmt.Sprintf("view_%d", size)
	path := filepath.Join(benchCacheDir, fmt.Sprintf("records_%d_aksview.bin", size))

	if p, ok := viewFiles[key]; ok {
		return p
	}

	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	if !fileExists(path) {
		b.Logf("Creating cached record file with %d records...", size)
		populateViewFile(b, path, size)
	} else {
		b.Logf("Using cached record file with %d records", size)
	}

	viewFiles[key] = path
	return path
}

func populateViewFile(b *testing.B, path string, numRecords int) {
	v, err := aksview.Open(path, aksview.ReadWrite|aksview.Create)
	if err != nil {
		b.Fatal(err)
	}
	defer v.Close()

	if err := v.SetLen(int64(numRecords) * recordSize); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < numRecords; i++ {
		v.WriteUint64(int64(i)*recordSize, true, uint64(i))
	}
	v.Flush()
}

// getCachedMdbxEnv returns a cached mdbx environment, creating and
// populating it if needed.
func getCachedMdbxEnv(b *testing.B, size int) *mdbxgo.Env {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	key := fmt.Sprintf("mdbx_%d", size)
	mdbxPath := filepath.Join(benchCacheDir, fmt.Sprintf("records_%d_mdbx.db", size))

	if env, ok := mdbxEnvs[key]; ok {
		return env
	}

	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	mdbxExists := fileExists(mdbxPath)

	runtime.LockOSThread()
	env, err := mdbxgo.NewEnv(mdbxgo.Label("bench"))
	if err != nil {
		b.Fatal(err)
	}
	env.SetOption(mdbxgo.OptMaxDB, 10)
	env.SetGeometry(-1, -1, 1<<32, -1, -1, 4096) // 4GB max
	if err := env.Open(mdbxPath, mdbxgo.NoSubdir|mdbxgo.NoMetaSync|mdbxgo.WriteMap, 0644); err != nil {
		b.Fatal(err)
	}
	runtime.UnlockOSThread()

	if !mdbxExists {
		b.Logf("Creating cached mdbx DB with %d records...", size)
		populateMdbxEnv(b, env, size)
	} else {
		b.Logf("Using cached mdbx DB with %d records", size)
	}

	mdbxEnvs[key] = env
	return env
}

func populateMdbxEnv(b *testing.B, env *mdbxgo.Env, numRecords int) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	txn, err := env.BeginTxn(nil, 0)
	if err != nil {
		b.Fatal(err)
	}
	dbi, err := txn.OpenDBI("bench", mdbxgo.Create, nil, nil)
	if err != nil {
		b.Fatal(err)
	}

	batchSize := 100_000
	key := make([]byte, 8)
	val := make([]byte, recordSize)

	for i := 0; i < numRecords; i++ {
		binary.BigEndian.PutUint64(key, uint64(i))
		binary.BigEndian.PutUint64(val, uint64(i))

		if err := txn.Put(dbi, key, val, mdbxgo.Upsert); err != nil {
			b.Fatal(err)
		}

		if (i+1)%batchSize == 0 {
			if _, err := txn.Commit(); err != nil {
				b.Fatal(err)
			}
			txn, err = env.BeginTxn(nil, 0)
			if err != nil {
				b.Fatal(err)
			}
		}
	}

	if _, err := txn.Commit(); err != nil {
		b.Fatal(err)
	}
}

// getCachedBoltDB returns a cached BoltDB database, creating and
// populating it if needed.
func getCachedBoltDB(b *testing.B, size int) *bolt.DB {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	key := fmt.Sprintf("bolt_%d", size)
	boltPath := filepath.Join(benchCacheDir, fmt.Sprintf("records_%d_bolt.db", size))

	if db, ok := boltDBs[key]; ok {
		return db
	}

	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	boltExists := fileExists(boltPath)

	db, err := bolt.Open(boltPath, 0644, &bolt.Options{
		NoSync:         true,
		NoFreelistSync: true,
	})
	if err != nil {
		b.Fatal(err)
	}

	if !boltExists {
		b.Logf("Creating cached BoltDB with %d records...", size)
		populateBoltDB(b, db, size)
	} else {
		b.Logf("Using cached BoltDB with %d records", size)
	}

	boltDBs[key] = db
	return db
}

func populateBoltDB(b *testing.B, db *bolt.DB, numRecords int) {
	batchSize := 100_000
	key := make([]byte, 8)
	val := make([]byte, recordSize)

	for start := 0; start < numRecords; start += batchSize {
		end := start + batchSize
		if end > numRecords {
			end = numRecords
		}
		err := db.Update(func(tx *bolt.Tx) error {
			bucket, err := tx.CreateBucketIfNotExists([]byte("bench"))
			if err != nil {
				return err
			}
			for i := start; i < end; i++ {
				binary.BigEndian.PutUint64(key, uint64(i))
				binary.BigEndian.PutUint64(val, uint64(i))
				if err := bucket.Put(key, val); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

// getCachedRocksDB returns a cached RocksDB database, creating and
// populating it if needed.
func getCachedRocksDB(b *testing.B, size int) *gorocksdb.DB {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	key := fmt.Sprintf("rocks_%d", size)
	rocksPath := filepath.Join(benchCacheDir, fmt.Sprintf("records_%d_rocks.db", size))

	if db, ok := rocksDBs[key]; ok {
		return db
	}

	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	rocksExists := fileExists(rocksPath)

	opts := gorocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)
	opts.SetWriteBufferSize(64 * 1024 * 1024) // 64MB write buffer
	opts.SetMaxWriteBufferNumber(3)
	opts.SetTargetFileSizeBase(64 * 1024 * 1024)

	db, err := gorocksdb.OpenDb(opts, rocksPath)
	if err != nil {
		b.Fatal(err)
	}

	if !rocksExists {
		b.Logf("Creating cached RocksDB with %d records...", size)
		populateRocksDB(b, db, size)
	} else {
		b.Logf("Using cached RocksDB with %d records", size)
	}

	rocksDBs[key] = db
	return db
}

func populateRocksDB(b *testing.B, db *gorocksdb.DB, numRecords int) {
	wo := gorocksdb.NewDefaultWriteOptions()
	defer wo.Destroy()

	key := make([]byte, 8)
	val := make([]byte, recordSize)

	// Use WriteBatch for better performance
	batch := gorocksdb.NewWriteBatch()
	defer batch.Destroy()

	batchSize := 100_000

	for i := 0; i < numRecords; i++ {
		binary.BigEndian.PutUint64(key, uint64(i))
		binary.BigEndian.PutUint64(val, uint64(i))

		batch.Put(key, val)

		if (i+1)%batchSize == 0 {
			if err := db.Write(wo, batch); err != nil {
				b.Fatal(err)
			}
			batch.Clear()
		}
	}

	// Write remaining
	if batch.Count() > 0 {
		if err := db.Write(wo, batch); err != nil {
			b.Fatal(err)
		}
	}
}

// CleanupBenchCache closes all cached environments.
// Call this in TestMain or after benchmarks complete.
func CleanupBenchCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	for _, env := range mdbxEnvs {
		env.Close()
	}
	for _, db := range boltDBs {
		db.Close()
	}
	for _, db := range rocksDBs {
		db.Close()
	}
	viewFiles = make(map[string]string)
	mdbxEnvs = make(map[string]*mdbxgo.Env)
	boltDBs = make(map[string]*bolt.DB)
	rocksDBs = make(map[string]*gorocksdb.DB)
}

// DeleteBenchCache removes all cached store files.
func DeleteBenchCache() error {
	return os.RemoveAll(benchCacheDir)
}
