package config

const (
	defaultDataDir         = "~/.local/share/ocrprep/data"
	defaultLogDir          = "~/.local/share/ocrprep/logs"
	defaultArchiveURL      = "https://github.com/perechen/htr_lexicography/raw/main/data/PL-20k-hand-labelled.tar.gz"
	defaultCSVURL          = "https://raw.githubusercontent.com/perechen/htr_lexicography/main/data/PL-20k-hand-labelled_labels.csv"
	defaultDownloadTimeout = 300
	defaultArchiveName     = "PL-20k-hand-labelled.tar.gz"
	defaultCSVName         = "PL-20k-hand-labelled_labels.csv"
	defaultExtractDir      = "PL-20k-hand-labelled"
	defaultLabelFile       = "train_labels.txt"
	defaultEvalLabelFile   = "eval_labels.txt"
	defaultDictFile        = "dict.txt"
	defaultMissingPolicy   = MissingImageSkip
	defaultNotifyTimeout   = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Missing-image policies for CSV rows whose referenced file is absent on disk.
const (
	// MissingImageSkip drops the row with a warning and records it in the catalog.
	MissingImageSkip = "skip"
	// MissingImageFail aborts the conversion on the first absent image.
	MissingImageFail = "fail"
)

// Default returns a Config populated with repository defaults. The defaults
// target the PL-20k hand-labelled handwriting dataset the tool was built for.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Source: Source{
			ArchiveURL:      defaultArchiveURL,
			CSVURL:          defaultCSVURL,
			DownloadTimeout: defaultDownloadTimeout,
		},
		Dataset: Dataset{
			ArchiveName:        defaultArchiveName,
			CSVName:            defaultCSVName,
			ExtractDir:         defaultExtractDir,
			LabelFile:          defaultLabelFile,
			EvalLabelFile:      defaultEvalLabelFile,
			DictFile:           defaultDictFile,
			EvalEveryN:         0,
			MissingImagePolicy: defaultMissingPolicy,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
