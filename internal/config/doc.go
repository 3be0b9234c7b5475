// Package config provides configuration parsing for dropzone.
//
// The configuration is stored in dropzone.json at the project root. The same
// document is injected into the upload page so the browser build of the widget
// sees the values the host server was started with.
//
// # Configuration File Structure
//
//	{
//	  "name": "facturas",
//	  "endpoint": "/",
//	  "fieldName": "file",
//	  "reloadDelay": "2s",
//	  "elements": {
//	    "dropZone": "drop-area",
//	    "input": "fileElem",
//	    "progress": "progressBar",
//	    "status": "fileList"
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 5000,
//	    "upstream": "http://localhost:8000",
//	    "static": {"dir": "public", "prefix": "/static/"}
//	  },
//	  "s3": {"region": "us-east-1"}
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Reload after:", cfg.ReloadDuration())
package config
