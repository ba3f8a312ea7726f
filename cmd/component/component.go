package component

import (
	"fmt"

	"catalog-keeper/cmd/root"
	"catalog-keeper/internal/models"
	"catalog-keeper/internal/rpc"
	"catalog-keeper/services"

	"github.com/spf13/cobra"
)

var componentCmd = &cobra.Command{
	Use:   "component",
	Short: "Component operations (list/show/add/update/remove)",
	Long:  `Component operations (list/show/add/update/remove). Edits the catalog document directly, or a running server with --remote.`,
}

const componentExample = `  catalog-keeper component list
  catalog-keeper component show nginx
  catalog-keeper component add nginx --name Nginx --has-ui --ui-port 80 --icon nginx --section Network --url-suffix ""
  catalog-keeper component update nginx --description "Edge proxy" --reverse-proxy
  catalog-keeper component remove nginx
  catalog-keeper component list --remote`

// catalog 组件目录访问接口，本地文件和远程服务两种实现
type catalog interface {
	ListComponents() (models.Catalog, error)
	GetComponent(id string) (models.Component, error)
	CreateComponent(id string, c models.Component) error
	UpdateComponent(id string, c models.Component) error
	DeleteComponent(id string) error
	Close() error
}

// localCatalog edits the catalog document in place.
type localCatalog struct {
	store *services.ComponentStore
}

func (l *localCatalog) ListComponents() (models.Catalog, error) {
	return l.store.GetAll(), nil
}

func (l *localCatalog) GetComponent(id string) (models.Component, error) {
	c, ok := l.store.Get(id)
	if !ok {
		return c, fmt.Errorf("%w: '%s'", services.ErrNotFound, id)
	}
	return c, nil
}

func (l *localCatalog) CreateComponent(id string, c models.Component) error {
	return l.store.Create(id, c)
}

func (l *localCatalog) UpdateComponent(id string, c models.Component) error {
	return l.store.Update(id, c)
}

func (l *localCatalog) DeleteComponent(id string) error {
	return l.store.Delete(id)
}

func (l *localCatalog) Close() error {
	return nil
}

/**
 * Open the catalog selected by the global flags
 * @returns {catalog} Local store, or REST client when --remote is set
 * @returns {error} Load errors of the catalog document
 */
func openCatalog() (catalog, error) {
	if root.Remote {
		return rpc.NewCatalogClient(rpc.NewHTTPClient(nil)), nil
	}
	store, err := services.LoadComponentStore(root.StorePath())
	if err != nil {
		return nil, err
	}
	return &localCatalog{store: store}, nil
}

func init() {
	root.RootCmd.AddCommand(componentCmd)

	componentCmd.Example = componentExample
}
