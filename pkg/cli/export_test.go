package cli

var GetIndexConfig = getIndexConfig
