package main

import (
	"context"
	"flag"
	"fmt"
	log2 "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hamidgh09/hopsfs-benchmark/hbench"
)

// use go build -ldflags "-X main.buildstamp=`date -u '+%Y-%m-%d_%I:%M:%S%p'` -X main.githash=`git rev-parse HEAD`"
var buildstamp = "No build stamp provided"
var githash = "No git hash provided"

// wether to display the version information
var showVersion bool

// the suite configuration assembled from defaults, config file and flags
var config *hbench.Config

// which test groups to run
var runMount bool
var runS3 bool
var runHdfs bool

// directory for the write_speeds.csv and read_speeds.csv reports, "" disables them
var csvDir string

// if not empty, all results are additionally saved as .json file
var jsonFileName string

// path for log file
var logPath string

// add a logging
var logger *log2.Logger

// program entry point
func main() {
	parseFlags()
	if showVersion {
		displayVersion()
		return
	}
	setupLogger()
	printRunHeader()

	results := runScenarios()

	hbench.PrintSummary(results)
	writeReports(results)

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("Benchmark complete!")
}

func parseFlags() {
	defaults := hbench.DefaultConfig()

	versionArg := flag.Bool("version", false, "Displays the version information.")
	configArg := flag.String("config", "", "Optional yaml file with suite settings. Explicit flags override the file.")
	allArg := flag.Bool("all", false, "Run all test groups.")
	mountArg := flag.Bool("mount", false, "Run the HopsFS mount tests.")
	s3Arg := flag.Bool("s3", false, "Run the MinIO/S3 tests.")
	hdfsArg := flag.Bool("hdfs", false, "Run the HDFS java client tests.")
	outputDirArg := flag.String("output-dir", defaults.OutputDir, "Output directory for the HopsFS mount tests.")
	hdfsOutputDirArg := flag.String("hdfs-output-dir", defaults.HdfsOutputDir, "Output directory for the HDFS tests.")
	numFilesLargeArg := flag.Int("num-files-large", defaults.NumFilesLarge, "Number of large files per test.")
	numFilesSmallArg := flag.Int("num-files-small", defaults.NumFilesSmall, "Number of small files per test.")
	sizeGbArg := flag.Float64("size-gb", defaults.SizeGB, "Size of large files in GB.")
	sizeKbArg := flag.Int("size-kb", defaults.SizeKB, "Size of small files in KB.")
	parallelWritesArg := flag.Int("parallel-writes", defaults.ParallelWrites, "Number of parallel writers for the small file tests.")
	bucketLargeArg := flag.String("bucket-large", defaults.BucketLarge, "S3 bucket name for large files.")
	bucketSmallArg := flag.String("bucket-small", defaults.BucketSmall, "S3 bucket name for small files.")
	runsArg := flag.Int("runs", defaults.Runs, "Number of times to run each experiment.")
	filesPerSubdirArg := flag.Int("files-per-subdir", defaults.FilesPerSubdir, "Number of staged files per subdirectory in the HDFS tests.")
	stagingDirArg := flag.String("staging-dir", defaults.StagingDir, "Local directory the test files are pre-created in.")
	endpointArg := flag.String("endpoint", defaults.Endpoint, "Sets the S3 endpoint to use. Might be any URI.")
	regionArg := flag.String("region", defaults.Region, "Sets the region to use for the S3 buckets.")
	insecureArg := flag.Bool("insecure", defaults.Insecure, "Skips the TLS certificate check for the S3 endpoint.")
	hdfsBinaryArg := flag.String("hdfs-binary", defaults.HdfsBinary, "The hdfs binary to shell out to.")
	csvDirArg := flag.String("csv-dir", ".", "Directory for the write_speeds.csv and read_speeds.csv reports. Empty disables them.")
	jsonArg := flag.String("json", "", "Saves all results as .json file.")
	logPathArg := flag.String("log-path", "", "Specify the path of the log file. Default is 'currentDir'")

	// parse the arguments and set all the global variables accordingly
	flag.Parse()

	showVersion = *versionArg
	csvDir = *csvDirArg
	jsonFileName = *jsonArg
	if *logPathArg == "" {
		logPath, _ = os.Getwd()
	} else {
		logPath = *logPathArg
	}

	config = defaults
	if *configArg != "" {
		fileConfig, err := hbench.LoadConfigFile(*configArg)
		if err != nil {
			panic(err)
		}
		config = fileConfig
	}

	// flags given explicitly on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output-dir":
			config.OutputDir = *outputDirArg
		case "hdfs-output-dir":
			config.HdfsOutputDir = *hdfsOutputDirArg
		case "num-files-large":
			config.NumFilesLarge = *numFilesLargeArg
		case "num-files-small":
			config.NumFilesSmall = *numFilesSmallArg
		case "size-gb":
			config.SizeGB = *sizeGbArg
		case "size-kb":
			config.SizeKB = *sizeKbArg
		case "parallel-writes":
			config.ParallelWrites = *parallelWritesArg
		case "bucket-large":
			config.BucketLarge = *bucketLargeArg
		case "bucket-small":
			config.BucketSmall = *bucketSmallArg
		case "runs":
			config.Runs = *runsArg
		case "files-per-subdir":
			config.FilesPerSubdir = *filesPerSubdirArg
		case "staging-dir":
			config.StagingDir = *stagingDirArg
		case "endpoint":
			config.Endpoint = *endpointArg
		case "region":
			config.Region = *regionArg
		case "insecure":
			config.Insecure = *insecureArg
		case "hdfs-binary":
			config.HdfsBinary = *hdfsBinaryArg
		}
	})

	if showVersion {
		return
	}

	runMount = *allArg || *mountArg
	runS3 = *allArg || *s3Arg
	runHdfs = *allArg || *hdfsArg

	// if no group is specified, show the usage
	if !(runMount || runS3 || runHdfs) {
		flag.Usage()
		fmt.Println("\nError: Please specify at least one test group to run.")
		os.Exit(1)
	}

	if err := config.Validate(); err != nil {
		panic(err)
	}
}

func displayVersion() {
	fmt.Printf("Git Commit Hash: %s\n", githash)
	fmt.Printf("UTC Build Time: %s", buildstamp)
}

func setupLogger() {
	file, _ := os.OpenFile(filepath.FromSlash(logPath+"/")+"hopsfs-benchmark.log", os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0777)
	logger = log2.New(file, "hopsfs-benchmark", log2.Ldate+log2.Ltime+log2.Lshortfile+log2.Lmsgprefix)
}

func printRunHeader() {
	fmt.Println("HopsFS Performance Benchmark Runner")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Test groups selected:")
	fmt.Printf("  - HopsFS Mount: %s\n", yesNo(runMount))
	fmt.Printf("  - MinIO/S3:     %s\n", yesNo(runS3))
	fmt.Printf("  - Java Client:  %s\n", yesNo(runHdfs))
	fmt.Printf("Runs per experiment: %d\n", config.Runs)
	fmt.Println(strings.Repeat("=", 50))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func printGroupBanner(title string) {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 80))
}

func runScenarios() []hbench.AggregateResult {
	ctx := context.Background()
	var results []hbench.AggregateResult
	testNum := 0

	// a failing scenario must not keep the remaining scenarios from running
	run := func(client hbench.StorageClient, cfg hbench.ScenarioConfig) {
		testNum++
		fmt.Printf("\n--- Test %d: %s ---\n", testNum, cfg.Name)
		scenario, err := hbench.NewScenario(cfg, client, logger)
		if err != nil {
			panic("Failed to set up scenario: " + err.Error())
		}
		agg, err := hbench.RunRepeated(ctx, scenario, config.Runs)
		if err != nil {
			fmt.Printf("\nError during benchmark execution: %v\n", err)
			logger.Printf("scenario %q failed: %v", cfg.Name, err)
			return
		}
		results = append(results, agg)
	}

	if runMount {
		printGroupBanner("RUNNING HOPSFS-MOUNT TESTS")
		local := hbench.NewLocalClient(nil)
		run(local, hbench.ScenarioConfig{
			Name:        "Large files (hopsfs-mount)",
			Items:       config.NumFilesLarge,
			ItemSize:    config.LargeFileBytes(),
			Concurrency: config.NumFilesLarge,
			StagingDir:  filepath.Join(config.StagingDir, "local_test"),
			Target:      hbench.Target{Root: config.OutputDir, Partitions: config.NumFilesLarge},
		})
		run(local, hbench.ScenarioConfig{
			Name:        "Small files (hopsfs-mount)",
			Items:       config.NumFilesSmall,
			ItemSize:    config.SmallFileBytes(),
			Concurrency: config.ParallelWrites,
			StagingDir:  filepath.Join(config.StagingDir, "small_test"),
			Target:      hbench.Target{Root: config.OutputDir, Partitions: config.ParallelWrites},
		})
	}

	if runS3 {
		printGroupBanner("RUNNING MINIO/S3 TESTS")
		s3Client := createS3Client()
		run(s3Client, hbench.ScenarioConfig{
			Name:        "Large files (S3)",
			Items:       config.NumFilesLarge,
			ItemSize:    config.LargeFileBytes(),
			Concurrency: config.NumFilesLarge,
			StagingDir:  filepath.Join(config.StagingDir, "s3_test"),
			Target:      hbench.Target{Root: config.BucketLarge},
		})
		run(s3Client, hbench.ScenarioConfig{
			Name:        "Small files (S3)",
			Items:       config.NumFilesSmall,
			ItemSize:    config.SmallFileBytes(),
			Concurrency: config.ParallelWrites,
			StagingDir:  filepath.Join(config.StagingDir, "s3_test"),
			Target:      hbench.Target{Root: config.BucketSmall},
		})
	}

	if runHdfs {
		printGroupBanner("RUNNING JAVA-CLIENT (HDFS) TESTS")
		hdfsClient := hbench.NewHdfsClient(&hbench.HdfsClientConfig{Binary: config.HdfsBinary})
		run(hdfsClient, hbench.ScenarioConfig{
			Name:           "Large files (HDFS)",
			Items:          config.NumFilesLarge,
			ItemSize:       config.LargeFileBytes(),
			Concurrency:    config.NumFilesLarge,
			StagingDir:     filepath.Join(config.StagingDir, "hdfs_test"),
			Target:         hbench.Target{Root: config.HdfsOutputDir + "/test_hdfs_large/tests"},
			FilesPerSubdir: config.FilesPerSubdir,
		})
		run(hdfsClient, hbench.ScenarioConfig{
			Name:           "Small files (HDFS)",
			Items:          config.NumFilesSmall,
			ItemSize:       config.SmallFileBytes(),
			Concurrency:    config.ParallelWrites,
			StagingDir:     filepath.Join(config.StagingDir, "hdfs_test"),
			Target:         hbench.Target{Root: config.HdfsOutputDir + "/test_hdfs_small/tests"},
			FilesPerSubdir: config.FilesPerSubdir,
		})
	}

	return results
}

func createS3Client() *hbench.S3Client {
	// credentials come from the environment, with the minio stock credentials
	// as fallback
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	if accessKey == "" {
		accessKey = "minioadmin"
	}
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if secretKey == "" {
		secretKey = "minioadmin"
	}

	client, err := hbench.NewS3Client(&hbench.S3ClientConfig{
		Region:    config.Region,
		Endpoint:  config.Endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Insecure:  config.Insecure,
	})
	if err != nil {
		panic("Failed to create S3 client: " + err.Error())
	}
	return client
}

func writeReports(results []hbench.AggregateResult) {
	if len(results) == 0 {
		return
	}

	if csvDir != "" {
		csvPath := filepath.Join(csvDir, "write_speeds.csv")
		if err := os.WriteFile(csvPath, hbench.WriteSpeedsCsv(results), 0644); err != nil {
			panic("Failed to create .csv output: " + err.Error())
		}
		fmt.Printf("\nWrite speeds saved to: %s\n", csvPath)

		csvPath = filepath.Join(csvDir, "read_speeds.csv")
		if err := os.WriteFile(csvPath, hbench.ReadSpeedsCsv(results), 0644); err != nil {
			panic("Failed to create .csv output: " + err.Error())
		}
		fmt.Printf("Read speeds saved to: %s\n", csvPath)
	}

	if jsonFileName != "" {
		jsonReport, err := hbench.ToJson(results)
		if err != nil {
			panic("Failed to create .json output: " + err.Error())
		}
		err = os.WriteFile(jsonFileName, jsonReport, 0644)
		if err != nil {
			panic("Failed to create .json output: " + err.Error())
		}
		fmt.Printf("JSON results were written to %s\n", jsonFileName)
	}
}
