package jobstorage

var IsConditionalCheckFailed = isConditionalCheckFailed
