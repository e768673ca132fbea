package common

import (
	"flag"
	"time"
)

var Version = "v0.2.0"
var SystemName = "Drivebox"

var Port = flag.Int("port", 4000, "the listening port")
var PrintVersion = flag.Bool("version", false, "print version and exit")
var PrintHelpFlag = flag.Bool("help", false, "print help and exit")
var LogDir = flag.String("log-dir", "", "specify the log directory")

var SQLitePath = "data/drivebox.db"
var UploadPath = "uploads"

// ItemsPerPage is the default page size applied at the API boundary when the
// client does not send one.
var ItemsPerPage = 20

// MaxUploadSize caps a single uploaded file at 10 MiB.
const MaxUploadSize = 10 * 1024 * 1024

var GlobalApiRateLimitNum = 120
var GlobalApiRateLimitDuration int64 = 3 * 60
var RateLimitKeyExpirationDuration = 20 * time.Minute

// CORSAllowOrigins lists the browser origins the frontend is served from.
var CORSAllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

func PrintHelp() {
	println(SystemName + " " + Version)
	println("Usage: drivebox [--port <port>] [--log-dir <log dir>] [--version] [--help]")
	flag.PrintDefaults()
}
