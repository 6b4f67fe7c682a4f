package util

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/jxskiss/base62"
	"github.com/pkg/errors"
)

type UniqueIDGenerate struct {
	snowflakeNode *snowflake.Node
}

var (
	singletonUniqueIDGenerate    *UniqueIDGenerate
	singletonUniqueIDGenerateErr error
	singletonUniqueIDGenerateOne sync.Once
)

func GetUniqueIDGenerate() (*UniqueIDGenerate, error) {
	singletonUniqueIDGenerateOne.Do(func() {
		snowflakeNode, err := snowflake.NewNode(GetEnvInt64("SNOWFLAKE_NODE", 1))
		if err != nil {
			singletonUniqueIDGenerateErr = errors.Wrap(err, "create snowflake failed")
			return
		}
		singletonUniqueIDGenerate = &UniqueIDGenerate{
			snowflakeNode: snowflakeNode,
		}
	})
	return singletonUniqueIDGenerate, singletonUniqueIDGenerateErr
}

func (u UniqueIDGenerate) Generate() *UniqueID {
	return &UniqueID{
		snowflakeID: u.snowflakeNode.Generate(),
	}
}

type UniqueID struct {
	snowflakeID snowflake.ID
}

func (u UniqueID) GetInt64() int64 {
	return u.snowflakeID.Int64()
}

func (u UniqueID) GetBase62() string {
	return string(base62.FormatInt(u.snowflakeID.Int64()))
}

func GetSnowflakeIDInt64() int64 {
	uniqueIDGenerate, err := GetUniqueIDGenerate()
	if err != nil {
		panic(err)
	}
	return uniqueIDGenerate.Generate().GetInt64()
}

func GetSnowflakeIDString() string {
	return strconv.FormatInt(GetSnowflakeIDInt64(), 10)
}

func GetSnowflakeIDBase62() string {
	uniqueIDGenerate, err := GetUniqueIDGenerate()
	if err != nil {
		panic(err)
	}
	return uniqueIDGenerate.Generate().GetBase62()
}
