package input

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v2"
)

var validate = validator.New()

// Init 下载地图数据
// 功能：根据配置从文件或MongoDB加载已解析的路网描述并校验
// 参数：ctx-上下文，in-输入配置
// 返回：路网描述与错误
// 算法说明：
// 1. 文件加载：map.file非空时读取YAML文件
// 2. 数据库加载：否则连接uri，在{db}.{col}中查找header.name等于map.name的文档
// 3. 校验：按struct tag检查链接类型、中心线点数等
func Init(ctx context.Context, in config.Input) (*MapData, error) {
	var (
		data *MapData
		err  error
	)
	if in.Map.File != "" {
		data, err = LoadFile(in.Map.File)
	} else {
		data, err = loadMongo(ctx, in.URI, in.Map)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	log.Infof("map %s: %d roads, %d junctions, %d junction groups",
		data.Header.Name, len(data.Roads), len(data.Junctions), len(data.JunctionGroups))
	return data, nil
}

// LoadFile 从YAML文件加载路网描述
func LoadFile(path string) (*MapData, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", path, err)
	}
	return Parse(file)
}

// Parse 解析YAML格式的路网描述
func Parse(file []byte) (*MapData, error) {
	var data MapData
	if err := yaml.UnmarshalStrict(file, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal map: %w", err)
	}
	return &data, nil
}

// Validate 校验路网描述
func Validate(data *MapData) error {
	if err := validate.Struct(data); err != nil {
		return fmt.Errorf("invalid map data: %w", err)
	}
	return nil
}

func loadMongo(ctx context.Context, uri string, path config.InputPath) (*MapData, error) {
	if uri == "" {
		return nil, fmt.Errorf("no map file and no mongo uri")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	coll := client.Database(path.GetDb()).Collection(path.GetColl())
	filter := bson.M{}
	if path.Name != "" {
		filter = bson.M{"header.name": path.Name}
	}
	log.Infof("start fetching from %s.%s", path.DB, path.Col)
	var data MapData
	if err := coll.FindOne(ctx, filter).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to fetch map from %s.%s: %w", path.DB, path.Col, err)
	}
	log.Infof("finish fetching from %s.%s", path.DB, path.Col)
	return &data, nil
}
